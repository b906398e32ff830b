package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-support/pkg/abicodec"
)

// NewABICmd creates the abi command group
func NewABICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abi",
		Short: "Pack and unpack contract ABIs",
		Long: `Pack a contract ABI into a compact base64 string and back.

The packed form is base64(zlib(json)), as produced by pako.deflate.`,
	}

	cmd.AddCommand(newABICompressCmd())
	cmd.AddCommand(newABIDecompressCmd())

	return cmd
}

func newABICompressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compress <file>",
		Short: "Compress an ABI or artifact JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abi, err := abicodec.LoadArtifactABI(args[0])
			if err != nil {
				return err
			}

			packed, err := abicodec.Compress(abi)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), packed)
			return nil
		},
	}
}

func newABIDecompressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decompress <string>",
		Short: "Decompress a packed ABI to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var abi any
			if err := abicodec.Decompress(args[0], &abi); err != nil {
				return err
			}

			out, err := json.MarshalIndent(abi, "", "  ")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
