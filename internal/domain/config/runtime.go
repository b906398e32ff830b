package config

import (
	"time"
)

// DefaultSignerIndex is the account index used to sign deployments when
// nothing else is configured. Account 0 is left to the test suite.
const DefaultSignerIndex = 1

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	DataDir      string
	ArtifactsDir string

	// Context settings
	Namespace   string // Maps to foundry profile
	NetworkName string // Resolved when a deployment starts

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration
	SignerIndex    int
	PollInterval   time.Duration
	AssumeYes      bool

	// Artifact names of the support contracts, empty for the defaults
	MulticallArtifact      string
	BalanceCheckerArtifact string

	// Resolved configurations
	FoundryConfig *FoundryConfig
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId" yaml:"chainId"`
	Name        string `json:"name" yaml:"name"`
	RPCURL      string `json:"rpcUrl" yaml:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
}

// IsDevChain reports whether the network is a local development chain
func (n *Network) IsDevChain() bool {
	switch n.ChainID {
	case 31337, 1337:
		return true
	}
	return false
}
