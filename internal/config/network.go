package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-support/internal/domain/config"
)

// devNetworks are always available, even without foundry.toml
var devNetworks = map[string]string{
	"localhost": "http://localhost:8545",
	"anvil":     "http://localhost:8545",
	"hardhat":   "http://localhost:8545",
}

// ChainIDFetcher returns the chain ID served at an RPC endpoint
type ChainIDFetcher func(ctx context.Context, rpcURL string) (uint64, error)

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	projectRoot   string
	foundryConfig *config.FoundryConfig
	cache         *NetworkCache
	fetchChainID  ChainIDFetcher
	mu            sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	Networks  map[string]uint64 `json:"networks"` // name -> chainID
	RPCs      map[string]uint64 `json:"rpcs"`     // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(projectRoot string, foundryConfig *config.FoundryConfig) *NetworkResolver {
	if foundryConfig == nil {
		foundryConfig = &config.FoundryConfig{}
	}
	r := &NetworkResolver{
		projectRoot:   projectRoot,
		foundryConfig: foundryConfig,
		fetchChainID:  fetchChainID,
	}

	r.loadCache()

	return r
}

// WithChainIDFetcher replaces the function used to query chain IDs
func (r *NetworkResolver) WithChainIDFetcher(f ChainIDFetcher) *NetworkResolver {
	r.fetchChainID = f
	return r
}

// GetNetworks returns every network name that can be resolved
func (r *NetworkResolver) GetNetworks(ctx context.Context) []string {
	names := lo.Uniq(append(lo.Keys(r.foundryConfig.RpcEndpoints), lo.Keys(devNetworks)...))
	sort.Strings(names)
	return names
}

// ResolveNetwork resolves a network name or raw RPC URL to its configuration
func (r *NetworkResolver) ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error) {
	if networkName == "" {
		return nil, fmt.Errorf("network not specified")
	}

	name := networkName
	rpcURL, exists := r.foundryConfig.RpcEndpoints[networkName]
	if !exists {
		rpcURL, exists = devNetworks[strings.ToLower(networkName)]
	}
	if !exists && isRPCURL(networkName) {
		name, rpcURL, exists = "custom", networkName, true
	}
	if !exists {
		return nil, r.unknownNetworkError(networkName)
	}
	if rpcURL == "" {
		return nil, fmt.Errorf("network '%s' has an empty RPC URL (is its environment variable set?)", networkName)
	}

	// Local nodes are not queried here; the deployer learns the chain ID on dial
	if isLocalURL(rpcURL) {
		return &config.Network{Name: name, RPCURL: rpcURL}, nil
	}

	r.mu.RLock()
	chainID, cached := r.cache.RPCs[rpcURL]
	r.mu.RUnlock()

	if !cached {
		fetched, err := r.fetchChainID(ctx, rpcURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", name, err)
		}
		chainID = fetched
		r.updateCache(name, rpcURL, chainID)
	}

	return &config.Network{
		Name:        name,
		RPCURL:      rpcURL,
		ChainID:     chainID,
		ExplorerURL: r.getExplorerURL(name, chainID),
	}, nil
}

func (r *NetworkResolver) unknownNetworkError(networkName string) error {
	matches := fuzzy.Find(networkName, r.GetNetworks(context.Background()))
	if len(matches) == 0 {
		return fmt.Errorf("network '%s' not found in foundry.toml [rpc_endpoints]", networkName)
	}
	suggestions := lo.Map(matches, func(m fuzzy.Match, _ int) string { return m.Str })
	return fmt.Errorf("network '%s' not found in foundry.toml [rpc_endpoints] (did you mean %s?)",
		networkName, strings.Join(suggestions, ", "))
}

func isRPCURL(s string) bool {
	for _, prefix := range []string{"http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// fetchChainID fetches the chain ID from an RPC endpoint
func fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// getExplorerURL returns the explorer URL for a network
func (r *NetworkResolver) getExplorerURL(networkName string, chainID uint64) string {
	if etherscan, exists := r.foundryConfig.Etherscan[networkName]; exists && etherscan.URL != "" {
		return etherscan.URL
	}

	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 17000:
		return "https://holesky.etherscan.io"
	case 560048:
		return "https://hoodi.etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	default:
		return ""
	}
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.projectRoot, "cache", "chainIds.json")
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = newNetworkCache()

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		// Cache doesn't exist yet, that's fine
		return
	}

	if err := json.Unmarshal(data, r.cache); err != nil || r.cache.RPCs == nil || r.cache.Networks == nil {
		r.cache = newNetworkCache()
	}
}

func newNetworkCache() *NetworkCache {
	return &NetworkCache{
		Networks:  make(map[string]uint64),
		RPCs:      make(map[string]uint64),
		UpdatedAt: time.Now(),
	}
}

// updateCache updates the cache with new chain ID information
func (r *NetworkResolver) updateCache(networkName, rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Networks[networkName] = chainID
	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	// Save to disk (ignore errors, cache is just for performance)
	_ = r.saveCache()
}

// saveCache saves the cache to disk
func (r *NetworkResolver) saveCache() error {
	if err := os.MkdirAll(filepath.Dir(r.cachePath()), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.cachePath(), data, 0644)
}

func isLocalURL(rpcURL string) bool {
	return strings.Contains(rpcURL, "://localhost") || strings.Contains(rpcURL, "://127.0.0.1") || strings.Contains(rpcURL, "://0.0.0.0")
}
