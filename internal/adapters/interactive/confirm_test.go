package interactive

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-support/internal/domain"
	"github.com/trebuchet-org/treb-support/internal/domain/config"
)

var signer = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	anvil := &config.Network{Name: "anvil", ChainID: 31337}
	sepolia := &config.Network{Name: "sepolia", ChainID: 11155111}

	tests := []struct {
		name      string
		cfg       *config.RuntimeConfig
		network   *config.Network
		answer    error
		wantErr   error
		wantAsked bool
	}{
		{name: "dev chain needs no confirmation", cfg: &config.RuntimeConfig{}, network: anvil},
		{name: "ganache chain needs no confirmation", cfg: &config.RuntimeConfig{}, network: &config.Network{Name: "ganache", ChainID: 1337}},
		{name: "--yes skips the prompt", cfg: &config.RuntimeConfig{AssumeYes: true}, network: sepolia},
		{name: "non-interactive refuses", cfg: &config.RuntimeConfig{NonInteractive: true}, network: sepolia, wantErr: domain.ErrConfirmationRequired},
		{name: "json mode refuses", cfg: &config.RuntimeConfig{JSON: true}, network: sepolia, wantErr: domain.ErrConfirmationRequired},
		{name: "accepted", cfg: &config.RuntimeConfig{}, network: sepolia, wantAsked: true},
		{name: "declined", cfg: &config.RuntimeConfig{}, network: sepolia, answer: promptui.ErrAbort, wantErr: domain.ErrDeploymentCancelled, wantAsked: true},
		{name: "interrupted", cfg: &config.RuntimeConfig{}, network: sepolia, answer: promptui.ErrInterrupt, wantErr: domain.ErrDeploymentCancelled, wantAsked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asked := false
			c := NewConfirmAdapter(tt.cfg).WithPrompt(func(label string) error {
				asked = true
				assert.Contains(t, label, signer.Hex())
				return tt.answer
			})

			err := c.Confirm(ctx, tt.network, signer)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantAsked, asked)
		})
	}
}

func TestConfirmPromptFailure(t *testing.T) {
	c := NewConfirmAdapter(&config.RuntimeConfig{}).WithPrompt(func(string) error {
		return errors.New("not a terminal")
	})

	err := c.Confirm(context.Background(), &config.Network{Name: "mainnet", ChainID: 1}, signer)
	require.Error(t, err)
	assert.ErrorContains(t, err, "not a terminal")
	assert.NotErrorIs(t, err, domain.ErrDeploymentCancelled)
}
