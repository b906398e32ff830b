package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-support/internal/cli/render"
	"github.com/trebuchet-org/treb-support/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks",
		Long: `List the networks configured in the [rpc_endpoints] section of foundry.toml,
plus the local development aliases (localhost, anvil, hardhat).

Remote networks are queried for their chain IDs; local ones are not.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			// Run use case
			params := usecase.ListNetworksParams{}
			result, err := app.ListNetworks.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			// Render output
			renderer := render.NewNetworksRenderer(cmd.OutOrStdout())
			return renderer.Render(result)
		},
	}

	return cmd
}
