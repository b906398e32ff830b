package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-support/internal/cli/render"
	"github.com/trebuchet-org/treb-support/internal/domain/config"
	"github.com/trebuchet-org/treb-support/internal/domain/models"
	"github.com/trebuchet-org/treb-support/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy Multicall2 and BalanceChecker",
		Long: `Deploy the Multicall2 and BalanceChecker support contracts from precompiled
artifacts. Both are signed by the node account at --signer-index (default 1)
and deployed strictly one after another; each address is printed as soon
as its transaction is confirmed.

Contracts confirmed before a failure stay deployed. Nothing is retried.`,
		Example: `  # Deploy to a local anvil or hardhat node
  treb-support deploy

  # Deploy to a foundry.toml endpoint, signing with the first account
  treb-support deploy --network sepolia --signer-index 0 --yes

  # Record the addresses for other tooling
  treb-support deploy --out deployments/support.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.DeploySupportContractsParams{
				SignerIndex: app.Config.SignerIndex,
				Contracts:   models.SupportContractsFor(app.Config.MulticallArtifact, app.Config.BalanceCheckerArtifact),
				OutputPath:  outPath,
			}

			result, err := app.DeploySupportContracts.Run(cmd.Context(), params)
			if err != nil {
				if hint := render.DeploymentHint(err); hint != "" && !app.Config.JSON {
					fmt.Fprintln(cmd.ErrOrStderr(), render.FormatWarning(hint))
				}
				return err
			}

			renderer := render.NewDeployRenderer(cmd.OutOrStdout(), app.Config.JSON)
			return renderer.Render(result)
		},
	}

	cmd.Flags().Int("signer-index", config.DefaultSignerIndex, "Index of the node account that signs the deployments")
	cmd.Flags().String("artifacts", "", "Directory with compiled artifacts (defaults to the foundry out/ or hardhat artifacts/ dir)")
	cmd.Flags().String("multicall", "", "Multicall2 artifact name or Source.sol:Name")
	cmd.Flags().String("balance-checker", "", "BalanceChecker artifact name or Source.sol:Name")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the result to a .json or .yaml file")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt for non-dev chains")

	return cmd
}
