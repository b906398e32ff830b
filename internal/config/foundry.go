package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/treb-support/internal/domain/config"
)

// loadEnvFiles loads .env and .env.local from the project root when present.
// Variables already set in the process environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadFoundryConfig loads and parses foundry.toml. A project without
// foundry.toml (e.g. a Hardhat project) gets an empty config.
func loadFoundryConfig(projectRoot string) (*config.FoundryConfig, error) {
	loadEnvFiles(projectRoot)

	cfg := &config.FoundryConfig{
		Profile:      make(map[string]config.ProfileConfig),
		RpcEndpoints: make(map[string]string),
		Etherscan:    make(map[string]config.EtherscanConfig),
	}

	foundryPath := filepath.Join(projectRoot, "foundry.toml")
	if _, err := os.Stat(foundryPath); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(foundryPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	for name, url := range cfg.RpcEndpoints {
		cfg.RpcEndpoints[name] = os.ExpandEnv(url)
	}
	for name, ec := range cfg.Etherscan {
		ec.URL = os.ExpandEnv(ec.URL)
		ec.Key = os.ExpandEnv(ec.Key)
		cfg.Etherscan[name] = ec
	}

	return cfg, nil
}

// supportConfig returns the treb.support table of a profile, if any
func supportConfig(foundry *config.FoundryConfig, profile string) *config.SupportConfig {
	p, ok := foundry.Profile[profile]
	if !ok || p.Treb == nil {
		return nil
	}
	return p.Treb.Support
}

// artifactsDir picks the artifacts directory: explicit setting, then the
// profile's foundry `out`, then Hardhat's artifacts/ if it exists, then out/.
func artifactsDir(projectRoot, explicit string, foundry *config.FoundryConfig, profile string) string {
	dir := explicit
	if dir == "" {
		if support := supportConfig(foundry, profile); support != nil && support.Artifacts != "" {
			dir = support.Artifacts
		}
	}
	if dir == "" {
		if p, ok := foundry.Profile[profile]; ok && p.OutPath != "" {
			dir = p.OutPath
		}
	}
	if dir == "" {
		dir = "out"
		if _, err := os.Stat(filepath.Join(projectRoot, "out")); os.IsNotExist(err) {
			if _, err := os.Stat(filepath.Join(projectRoot, "artifacts")); err == nil {
				dir = "artifacts"
			}
		}
	}

	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(projectRoot, dir)
}
