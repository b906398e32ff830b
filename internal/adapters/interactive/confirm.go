package interactive

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/treb-support/internal/domain"
	"github.com/trebuchet-org/treb-support/internal/domain/config"
	"github.com/trebuchet-org/treb-support/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PromptFunc asks a yes/no question; a nil error means yes
type PromptFunc func(label string) error

// ConfirmAdapter asks before deploying to anything but a local dev chain
type ConfirmAdapter struct {
	config *config.RuntimeConfig
	prompt PromptFunc
}

// NewConfirmAdapter creates a new confirmation adapter
func NewConfirmAdapter(cfg *config.RuntimeConfig) *ConfirmAdapter {
	return &ConfirmAdapter{config: cfg, prompt: promptConfirm}
}

// WithPrompt replaces the prompt implementation
func (c *ConfirmAdapter) WithPrompt(prompt PromptFunc) *ConfirmAdapter {
	c.prompt = prompt
	return c
}

// Confirm returns nil when the deployment may proceed
func (c *ConfirmAdapter) Confirm(ctx context.Context, network *config.Network, signer common.Address) error {
	if network.IsDevChain() || c.config.AssumeYes {
		return nil
	}

	// In non-interactive mode, we can't prompt
	if c.config.NonInteractive || c.config.JSON {
		return fmt.Errorf("%w: %s (chain %d) is not a local dev chain", domain.ErrConfirmationRequired, network.Name, network.ChainID)
	}

	label := fmt.Sprintf("Deploy support contracts to %s (chain %d) from %s",
		color.New(color.FgYellow, color.Bold).Sprint(cases.Title(language.English).String(network.Name)), network.ChainID, signer.Hex())

	if err := c.prompt(label); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return domain.ErrDeploymentCancelled
		}
		return fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return nil
}

func promptConfirm(label string) error {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err
}

// Ensure the adapter implements the interface
var _ usecase.DeploymentConfirmer = (*ConfirmAdapter)(nil)
