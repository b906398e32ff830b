//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-support/internal/adapters"
	"github.com/trebuchet-org/treb-support/internal/config"
	"github.com/trebuchet-org/treb-support/internal/logging"
	"github.com/trebuchet-org/treb-support/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,

		// Logging
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeploySupportContracts,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
