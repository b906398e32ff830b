package render

import (
	"errors"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-support/internal/domain"
)

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Capitalize first letter
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// DeploymentHint returns a follow-up hint for a failed run, or ""
func DeploymentHint(err error) string {
	var deployErr *domain.DeploymentError
	var accountErr *domain.AccountFetchError
	var artifactErr *domain.ArtifactNotFoundError

	switch {
	case errors.As(err, &accountErr):
		return "Is the node running, and does it expose unlocked accounts? Use --signer-index to pick another account."
	case errors.As(err, &artifactErr):
		return "Build the contracts first, or point --artifacts at the build output."
	case errors.As(err, &deployErr):
		return "Contracts confirmed before this failure stay deployed; rerun to deploy a fresh set."
	case errors.Is(err, domain.ErrConfirmationRequired):
		return "Pass --yes to deploy to this network without a prompt."
	}
	return ""
}
