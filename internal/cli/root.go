package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-support/internal/adapters/progress"
	"github.com/trebuchet-org/treb-support/internal/app"
	"github.com/trebuchet-org/treb-support/internal/cli/render"
	"github.com/trebuchet-org/treb-support/internal/config"
	"github.com/trebuchet-org/treb-support/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treb-support",
		Short: "Deploy the Multicall2 and BalanceChecker support contracts",
		Long: `treb-support deploys the Multicall2 and BalanceChecker support contracts
to a development or test network, one after another, from an account
managed by the node.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsApp(cmd) {
				return nil
			}

			// Find project root
			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			// Set up viper, flags win over env and config file
			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v, newProgressSink(cmd, v.GetBool("json")))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				// Store cancel func to be called on command completion
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")
	rootCmd.PersistentFlags().StringP("namespace", "s", "", "Foundry profile to read settings from (defaults to 'default')")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network name from foundry.toml, or an RPC URL (defaults to localhost)")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	abiCmd := NewABICmd()
	abiCmd.GroupID = "management"
	rootCmd.AddCommand(abiCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// needsApp reports whether cmd runs against a project and network
func needsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", "abi":
		return false
	}
	if parent := cmd.Parent(); parent != nil && parent.Name() == "abi" {
		return false
	}
	return true
}

// newProgressSink builds the live console output for a run, or a no-op sink
// in JSON mode so stdout stays a single document
func newProgressSink(cmd *cobra.Command, jsonOutput bool) usecase.ProgressSink {
	if jsonOutput {
		return progress.NewNopSink()
	}
	out := cmd.OutOrStdout()
	return progress.NewDeployProgress(
		render.NewDeployRenderer(out, false),
		progress.NewSpinnerProgressReporter(out),
		nil,
	)
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
