package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/treb-support/internal/domain/config"
	"github.com/trebuchet-org/treb-support/internal/usecase"
	"gopkg.in/yaml.v3"
)

// ResultWriterAdapter writes deployment results to disk as JSON or YAML
type ResultWriterAdapter struct {
	projectRoot string
}

// NewResultWriterAdapter creates a new result writer adapter
func NewResultWriterAdapter(cfg *config.RuntimeConfig) *ResultWriterAdapter {
	return &ResultWriterAdapter{projectRoot: cfg.ProjectRoot}
}

// Write encodes the result by file extension (.yaml/.yml, otherwise JSON).
// Relative paths are resolved against the project root.
func (f *ResultWriterAdapter) Write(ctx context.Context, path string, result *usecase.DeploySupportContractsResult) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.projectRoot, path)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(result)
	default:
		data, err = json.MarshalIndent(result, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Ensure the adapter implements the interface
var _ usecase.ResultWriter = (*ResultWriterAdapter)(nil)
