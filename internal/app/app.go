package app

import (
	"log/slog"

	"github.com/trebuchet-org/treb-support/internal/domain/config"
	"github.com/trebuchet-org/treb-support/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Logger *slog.Logger

	// Use cases
	DeploySupportContracts *usecase.DeploySupportContracts
	ListNetworks           *usecase.ListNetworks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	logger *slog.Logger,
	deploySupportContracts *usecase.DeploySupportContracts,
	listNetworks *usecase.ListNetworks,
) (*App, error) {
	return &App{
		Config:                 cfg,
		Logger:                 logger,
		DeploySupportContracts: deploySupportContracts,
		ListNetworks:           listNetworks,
	}, nil
}
