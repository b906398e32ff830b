package config

// FoundryConfig represents the parts of foundry.toml treb-support reads
type FoundryConfig struct {
	Profile      map[string]ProfileConfig   `toml:"profile"`
	RpcEndpoints map[string]string          `toml:"rpc_endpoints"`
	Etherscan    map[string]EtherscanConfig `toml:"etherscan,omitempty"`
}

// EtherscanConfig represents Etherscan configuration for a network
// This matches Foundry's expected structure
type EtherscanConfig struct {
	Key string `toml:"key,omitempty"` // API key for verification
	URL string `toml:"url,omitempty"` // API URL (for custom explorers)
}

// ProfileConfig represents a profile's foundry configuration
type ProfileConfig struct {
	SrcPath string      `toml:"src,omitempty"`
	OutPath string      `toml:"out,omitempty"`
	Treb    *TrebConfig `toml:"treb,omitempty"`
}

// TrebConfig represents treb-specific configuration nested in a foundry profile
type TrebConfig struct {
	Support *SupportConfig `toml:"support,omitempty"`
}

// SupportConfig holds the [profile.<name>.treb.support] table
type SupportConfig struct {
	// SignerIndex selects which node account signs deployments
	SignerIndex *int `toml:"signer_index,omitempty"`
	// Artifacts overrides the artifacts directory (relative to the project root)
	Artifacts string `toml:"artifacts,omitempty"`
	// Network is the default network for this profile
	Network string `toml:"network,omitempty"`
	// Multicall and BalanceChecker override the artifact names, either a
	// contract name or "Source.sol:Name"
	Multicall      string `toml:"multicall,omitempty"`
	BalanceChecker string `toml:"balance_checker,omitempty"`
}
