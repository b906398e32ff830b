package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-support/internal/domain/config"
	"github.com/trebuchet-org/treb-support/internal/domain/models"
	"github.com/trebuchet-org/treb-support/internal/usecase"
)

// DeployRenderer renders the console output of a support deployment run
type DeployRenderer struct {
	out  io.Writer
	json bool
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, json bool) *DeployRenderer {
	return &DeployRenderer{
		out:  out,
		json: json,
	}
}

// PrintHeader prints the network and signing account
func (r *DeployRenderer) PrintHeader(network *config.Network, signer common.Address) {
	if r.json {
		return
	}
	fmt.Fprintf(r.out, "Using network: %s\n", network.Name)
	fmt.Fprintf(r.out, "Deploying from: %s\n", signer.Hex())
	fmt.Fprintln(r.out)
}

// PrintDeployed prints the labelled address block of one deployed contract
func (r *DeployRenderer) PrintDeployed(deployed *models.DeployedContract) {
	if r.json {
		return
	}
	fmt.Fprintf(r.out, "   %s\n", color.New(color.FgCyan).Sprint(deployed.Label))
	fmt.Fprintf(r.out, "     %s\n", color.New(color.FgGreen).Sprint(deployed.Address.Hex()))
}

// Render prints the closing marker, or the whole result in JSON mode
func (r *DeployRenderer) Render(result *usecase.DeploySupportContractsResult) error {
	if r.json {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(newDeployJSON(result))
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  %s\n", color.New(color.FgGreen, color.Bold).Sprint("Done!"))
	fmt.Fprintln(r.out)
	return nil
}

type deployJSON struct {
	Network   string             `json:"network"`
	ChainID   uint64             `json:"chainId"`
	Signer    string             `json:"signer"`
	Contracts []deployedContract `json:"contracts"`
}

type deployedContract struct {
	Name            string `json:"name"`
	Address         string `json:"address"`
	TransactionHash string `json:"transactionHash"`
	BlockNumber     uint64 `json:"blockNumber"`
}

func newDeployJSON(result *usecase.DeploySupportContractsResult) deployJSON {
	out := deployJSON{
		Network:   result.Network.Name,
		ChainID:   result.Network.ChainID,
		Signer:    result.Signer.Hex(),
		Contracts: make([]deployedContract, 0, len(result.Deployments)),
	}
	for _, d := range result.Deployments {
		out.Contracts = append(out.Contracts, deployedContract{
			Name:            d.Name,
			Address:         d.Address.Hex(),
			TransactionHash: d.TxHash.Hex(),
			BlockNumber:     d.BlockNumber,
		})
	}
	return out
}

var _ Renderer[*usecase.DeploySupportContractsResult] = (*DeployRenderer)(nil)
