package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-support/internal/domain/config"
)

// DefaultNetwork is used when neither flags, environment nor the foundry
// profile name a network
const DefaultNetwork = "localhost"

// projectMarkers identify a project root
var projectMarkers = []string{
	"foundry.toml",
	"hardhat.config.js",
	"hardhat.config.ts",
	"hardhat.config.cjs",
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, ".treb"),
		Namespace:      v.GetString("namespace"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		PollInterval:   v.GetDuration("poll_interval"),
		AssumeYes:      v.GetBool("yes"),
		SignerIndex:    config.DefaultSignerIndex,
	}

	foundryConfig, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}
	cfg.FoundryConfig = foundryConfig

	support := supportConfig(foundryConfig, cfg.Namespace)

	// Flag/env wins over the profile, the profile over the default
	if v.IsSet("signer_index") {
		cfg.SignerIndex = v.GetInt("signer_index")
	} else if support != nil && support.SignerIndex != nil {
		cfg.SignerIndex = *support.SignerIndex
	}
	if cfg.SignerIndex < 0 {
		return nil, fmt.Errorf("signer index must not be negative, got %d", cfg.SignerIndex)
	}

	cfg.ArtifactsDir = artifactsDir(projectRoot, v.GetString("artifacts"), foundryConfig, cfg.Namespace)

	networkName := v.GetString("network")
	if networkName == "" && support != nil {
		networkName = support.Network
	}
	if networkName == "" {
		networkName = DefaultNetwork
	}

	cfg.NetworkName = networkName

	cfg.MulticallArtifact = v.GetString("multicall")
	cfg.BalanceCheckerArtifact = v.GetString("balance_checker")
	if support != nil {
		if cfg.MulticallArtifact == "" {
			cfg.MulticallArtifact = support.Multicall
		}
		if cfg.BalanceCheckerArtifact == "" {
			cfg.BalanceCheckerArtifact = support.BalanceChecker
		}
	}

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find foundry.toml or a
// hardhat config. Falls back to the working directory.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".treb"))

	// Set up environment variables
	v.SetEnvPrefix("TREB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("namespace", "default")
	v.SetDefault("timeout", "5m")
	v.SetDefault("poll_interval", "500ms")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.ProjectRoot, cfg.FoundryConfig)
}
