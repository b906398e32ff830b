package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-support/internal/usecase"
)

// SpinnerProgressReporter shows a spinner while the run waits on the node
type SpinnerProgressReporter struct {
	spinner    *spinner.Spinner
	out        io.Writer
	stage      string
	stageStart time.Time
	spinning   bool // requested; the spinner itself only runs on a terminal
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
// writing to out
func NewSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.stage {
		r.stage = event.Stage
		r.stageStart = time.Now()
	}

	if !event.Spinner {
		r.Stop()
		return
	}

	suffix := event.Message
	if event.Total > 0 {
		suffix = fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message)
	}
	r.spinner.Suffix = " " + color.New(color.FgYellow).Sprint(suffix)
	r.spinning = true

	if !r.spinner.Active() {
		r.spinner.Start()
	}
}

// Stop stops the spinner if it is running
func (r *SpinnerProgressReporter) Stop() {
	r.spinning = false
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Elapsed returns how long the current stage has been running
func (r *SpinnerProgressReporter) Elapsed() time.Duration {
	if r.stageStart.IsZero() {
		return 0
	}
	return time.Since(r.stageStart).Round(time.Millisecond)
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.withPaused(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.withPaused(func() {
		color.New(color.FgRed).Fprintln(r.out, message)
	})
}

// withPaused stops the spinner around f and restarts it if it was active
func (r *SpinnerProgressReporter) withPaused(f func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	f()

	if wasActive {
		r.spinner.Start()
	}
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
