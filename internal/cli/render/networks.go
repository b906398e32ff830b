package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-support/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{
		out: out,
	}
}

// Render renders the list of networks as a borderless table
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in foundry.toml [rpc_endpoints]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Box = table.BoxStyle{
		PaddingLeft:  "  ",
		PaddingRight: "  ",
	}

	for _, network := range result.Networks {
		switch {
		case network.Error != nil:
			t.AppendRow(table.Row{"❌", network.Name, "", color.New(color.FgRed).Sprintf("Error: %v", network.Error)})
		case network.ChainID == 0:
			t.AppendRow(table.Row{"✅", network.Name, "local", network.RPCURL})
		default:
			t.AppendRow(table.Row{"✅", network.Name, strconv.FormatUint(network.ChainID, 10), network.RPCURL})
		}
	}

	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
