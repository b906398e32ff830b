package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-support/internal/domain"
	"github.com/trebuchet-org/treb-support/internal/domain/config"
	"github.com/trebuchet-org/treb-support/internal/domain/models"
)

// DeploymentStage represents a stage of a support deployment run
type DeploymentStage string

const (
	StageConnecting DeploymentStage = "Connecting"
	StageAccounts   DeploymentStage = "Accounts"
	StageDeploying  DeploymentStage = "Deploying"
	StageDeployed   DeploymentStage = "Deployed"
	StageCompleted  DeploymentStage = "Completed"
	// StageConfirming precedes the confirmation prompt; nothing may draw over it
	StageConfirming DeploymentStage = "Confirming"
	// StageFailed is the terminal event of a run that returned an error
	StageFailed DeploymentStage = "Failed"
)

// DeploySupportContractsParams contains parameters for a deployment run
type DeploySupportContractsParams struct {
	// Network overrides the configured network name when set
	Network *config.Network
	// SignerIndex selects the node account that signs every deployment
	SignerIndex int
	// Contracts to deploy, in order. Defaults to models.DefaultSupportContracts().
	Contracts []models.SupportContract
	// OutputPath, when set, receives the result document after a successful run
	OutputPath string
}

// DeploymentStart is attached to the StageAccounts event
type DeploymentStart struct {
	Network *config.Network
	Signer  common.Address
}

// DeploySupportContractsResult contains the ordered outcome of a run
type DeploySupportContractsResult struct {
	Network     *config.Network            `json:"network" yaml:"network"`
	Signer      common.Address             `json:"signer" yaml:"signer"`
	Accounts    []common.Address           `json:"accounts" yaml:"accounts"`
	Deployments []*models.DeployedContract `json:"deployments" yaml:"deployments"`
}

// DeploySupportContracts deploys the support contracts one after another
type DeploySupportContracts struct {
	config    *config.RuntimeConfig
	resolver  NetworkResolver
	artifacts ArtifactStore
	dialer    NetworkDialer
	confirmer DeploymentConfirmer
	writer    ResultWriter
	progress  ProgressSink
}

// NewDeploySupportContracts creates a new DeploySupportContracts use case
func NewDeploySupportContracts(
	cfg *config.RuntimeConfig,
	resolver NetworkResolver,
	artifacts ArtifactStore,
	dialer NetworkDialer,
	confirmer DeploymentConfirmer,
	writer ResultWriter,
	progress ProgressSink,
) *DeploySupportContracts {
	if progress == nil {
		progress = NopProgress{}
	}
	return &DeploySupportContracts{
		config:    cfg,
		resolver:  resolver,
		artifacts: artifacts,
		dialer:    dialer,
		confirmer: confirmer,
		writer:    writer,
		progress:  progress,
	}
}

// Run executes the deployment. Nothing is retried and nothing is rolled back:
// contracts confirmed before a failure stay deployed.
func (uc *DeploySupportContracts) Run(ctx context.Context, params DeploySupportContractsParams) (result *DeploySupportContractsResult, err error) {
	defer func() {
		if err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageFailed), Message: err.Error()})
		}
	}()

	if params.SignerIndex < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidSignerIndex, params.SignerIndex)
	}

	network, err := uc.resolveNetwork(ctx, params.Network)
	if err != nil {
		return nil, err
	}

	contracts := params.Contracts
	if len(contracts) == 0 {
		contracts = models.DefaultSupportContracts()
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageConnecting),
		Message: fmt.Sprintf("Connecting to %s", network.Name),
		Spinner: true,
	})

	provider, err := uc.dialer.Dial(ctx, network)
	if err != nil {
		return nil, &domain.AccountFetchError{Network: network.Name, Cause: err}
	}
	defer provider.Close()

	if network.ChainID == 0 {
		resolved := *network
		resolved.ChainID = provider.ChainID()
		network = &resolved
	}

	accounts, err := provider.ListAccounts(ctx)
	if err != nil {
		return nil, &domain.AccountFetchError{Network: network.Name, Cause: err}
	}
	if len(accounts) <= params.SignerIndex {
		return nil, &domain.AccountFetchError{
			Network: network.Name,
			Have:    len(accounts),
			Need:    params.SignerIndex + 1,
		}
	}
	signer := accounts[params.SignerIndex]

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageConfirming)})

	if uc.confirmer != nil {
		if err := uc.confirmer.Confirm(ctx, network, signer); err != nil {
			return nil, err
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    string(StageAccounts),
		Metadata: &DeploymentStart{Network: network, Signer: signer},
	})

	result = &DeploySupportContractsResult{
		Network:     network,
		Signer:      signer,
		Accounts:    accounts,
		Deployments: make([]*models.DeployedContract, 0, len(contracts)),
	}

	for i, contract := range contracts {
		// Resolved only after the previous deployment is confirmed
		artifact, err := uc.artifacts.Get(ctx, contract.Name)
		if err != nil {
			return nil, err
		}

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:    string(StageDeploying),
			Current:  i + 1,
			Total:    len(contracts),
			Message:  fmt.Sprintf("Deploying %s", contract.Name),
			Spinner:  true,
			Metadata: contract,
		})

		receipt, err := provider.Deploy(ctx, artifact, signer)
		if err != nil {
			return nil, &domain.DeploymentError{Contract: contract.Name, Cause: err}
		}

		deployed := &models.DeployedContract{
			Name:        contract.Name,
			Label:       contract.Label,
			Address:     receipt.ContractAddress,
			Deployer:    signer,
			TxHash:      receipt.TxHash,
			BlockNumber: receipt.BlockNumber,
			GasUsed:     receipt.GasUsed,
			Artifact:    artifact,
		}
		result.Deployments = append(result.Deployments, deployed)

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:    string(StageDeployed),
			Current:  i + 1,
			Total:    len(contracts),
			Metadata: deployed,
		})
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: string(StageCompleted)})

	if params.OutputPath != "" && uc.writer != nil {
		if err := uc.writer.Write(ctx, params.OutputPath, result); err != nil {
			return nil, fmt.Errorf("failed to write deployment result: %w", err)
		}
	}

	return result, nil
}

// resolveNetwork returns the explicit network, or resolves the configured name
func (uc *DeploySupportContracts) resolveNetwork(ctx context.Context, explicit *config.Network) (*config.Network, error) {
	if explicit != nil {
		return explicit, nil
	}

	var name string
	if uc.config != nil {
		name = uc.config.NetworkName
	}
	if name == "" || uc.resolver == nil {
		return nil, domain.ErrNetworkNotSpecified
	}

	network, err := uc.resolver.ResolveNetwork(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network %s: %w", name, err)
	}
	return network, nil
}
