package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-support/internal/domain/config"
	"github.com/trebuchet-org/treb-support/internal/domain/models"
)

// ArtifactStore resolves compiled contracts by name
type ArtifactStore interface {
	Get(ctx context.Context, name string) (*models.Artifact, error)
}

// NetworkDialer opens a provider connection for a network
type NetworkDialer interface {
	Dial(ctx context.Context, network *config.Network) (NetworkProvider, error)
}

// NetworkProvider submits transactions and lists accounts on one network
type NetworkProvider interface {
	ChainID() uint64
	ListAccounts(ctx context.Context) ([]common.Address, error)
	// Deploy submits the artifact's creation bytecode from an unlocked node
	// account and blocks until the transaction is confirmed.
	Deploy(ctx context.Context, artifact *models.Artifact, from common.Address) (*models.CreationReceipt, error)
	Close()
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
}

// DeploymentConfirmer asks for approval before transactions are submitted
type DeploymentConfirmer interface {
	Confirm(ctx context.Context, network *config.Network, signer common.Address) error
}

// ResultWriter persists a deployment result
type ResultWriter interface {
	Write(ctx context.Context, path string, result *DeploySupportContractsResult) error
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
