package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/treb-support/internal/adapters/artifacts"
	"github.com/trebuchet-org/treb-support/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-support/internal/adapters/fs"
	"github.com/trebuchet-org/treb-support/internal/adapters/interactive"
	"github.com/trebuchet-org/treb-support/internal/config"
	"github.com/trebuchet-org/treb-support/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	artifacts.NewStoreFromConfig,
	wire.Bind(new(usecase.ArtifactStore), new(*artifacts.Store)),

	fs.NewResultWriterAdapter,
	wire.Bind(new(usecase.ResultWriter), new(*fs.ResultWriterAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmAdapter,
	wire.Bind(new(usecase.DeploymentConfirmer), new(*interactive.ConfirmAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewDialer,
	wire.Bind(new(usecase.NetworkDialer), new(*blockchain.Dialer)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
)
