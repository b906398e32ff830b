package progress

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/treb-support/internal/cli/render"
	"github.com/trebuchet-org/treb-support/internal/domain/models"
	"github.com/trebuchet-org/treb-support/internal/usecase"
)

// DeployProgress prints each address block as soon as its deployment is
// confirmed, so partial runs stay visible when a later step fails
type DeployProgress struct {
	renderer *render.DeployRenderer
	spinner  *SpinnerProgressReporter
	log      *slog.Logger
}

// NewDeployProgress creates a new deploy progress sink
func NewDeployProgress(renderer *render.DeployRenderer, spinner *SpinnerProgressReporter, log *slog.Logger) *DeployProgress {
	if log == nil {
		log = slog.Default()
	}
	return &DeployProgress{
		renderer: renderer,
		spinner:  spinner,
		log:      log,
	}
}

// OnProgress renders header and address blocks and drives the spinner otherwise
func (p *DeployProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	switch usecase.DeploymentStage(event.Stage) {
	case usecase.StageAccounts:
		p.spinner.Stop()
		if start, ok := event.Metadata.(*usecase.DeploymentStart); ok {
			p.renderer.PrintHeader(start.Network, start.Signer)
		} else {
			p.spinner.Info("Warning: wrong data-type in deployment start event")
		}
	case usecase.StageDeployed:
		elapsed := p.spinner.Elapsed()
		p.spinner.Stop()
		if deployed, ok := event.Metadata.(*models.DeployedContract); ok {
			p.log.Debug("deployment confirmed", "contract", deployed.Name, "address", deployed.Address, "elapsed", elapsed)
			p.renderer.PrintDeployed(deployed)
		} else {
			p.spinner.Info("Warning: wrong data-type in deployed event")
		}
	case usecase.StageConfirming:
		// The prompt reads from the same terminal
		p.spinner.Stop()
	case usecase.StageFailed:
		p.spinner.Stop()
		p.log.Debug("deployment failed", "stage", p.spinner.stage, "elapsed", p.spinner.Elapsed(), "error", event.Message)
	default:
		p.spinner.OnProgress(ctx, event)
	}
}

// Info prints an info message
func (p *DeployProgress) Info(message string) {
	p.spinner.Info(message)
}

// Error prints an error message
func (p *DeployProgress) Error(message string) {
	p.spinner.Error(message)
}

// Ensure DeployProgress implements ProgressSink
var _ usecase.ProgressSink = (*DeployProgress)(nil)
