package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrNetworkNotSpecified is returned when no network was configured or passed
	ErrNetworkNotSpecified = errors.New("network not specified")

	// ErrInvalidSignerIndex is returned for a negative signer index
	ErrInvalidSignerIndex = errors.New("invalid signer index")

	// ErrInvalidChainID is returned when the node reports an unexpected chain ID
	ErrInvalidChainID = errors.New("invalid chain ID")

	// ErrTransactionReverted is returned when a creation transaction has status 0
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrEmptyCode is returned when no runtime code exists at a freshly deployed address
	ErrEmptyCode = errors.New("no code at deployed address")

	// ErrUnlinkedBytecode is returned for bytecode with unresolved library placeholders
	ErrUnlinkedBytecode = errors.New("bytecode has unlinked library references")

	// ErrConstructorArgs is returned when a support contract's constructor takes arguments
	ErrConstructorArgs = errors.New("constructor requires arguments")

	// ErrConfirmationRequired is returned when a deployment needs confirmation but prompts are disabled
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrDeploymentCancelled is returned when the user declines the deployment
	ErrDeploymentCancelled = errors.New("deployment cancelled")
)

// AccountFetchError reports that the signing account could not be obtained.
// Either the provider failed or it returned too few accounts.
type AccountFetchError struct {
	Network string
	Have    int
	Need    int
	Cause   error
}

func (e *AccountFetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("error retrieving accounts from %s: %v", e.Network, e.Cause)
	}
	return fmt.Sprintf("error retrieving accounts from %s: need at least %d accounts, node returned %d", e.Network, e.Need, e.Have)
}

func (e *AccountFetchError) Unwrap() error {
	return e.Cause
}

// ArtifactNotFoundError reports a contract name missing from the artifact store
type ArtifactNotFoundError struct {
	Name        string
	Dir         string
	Suggestions []string
}

func (e *ArtifactNotFoundError) Error() string {
	msg := fmt.Sprintf("artifact %s not found in %s", e.Name, e.Dir)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *ArtifactNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AmbiguousArtifactError reports several artifacts sharing one contract name
type AmbiguousArtifactError struct {
	Name    string
	Matches []string
}

func (e *AmbiguousArtifactError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "multiple artifacts found for %s - pass Source.sol:Name via --multicall/--balance-checker or the multicall/balance_checker keys of [profile.<name>.treb.support]:", e.Name)
	for _, m := range e.Matches {
		fmt.Fprintf(&b, "\n  - %s", m)
	}
	return b.String()
}

// DeploymentError reports a failed contract-creation transaction
type DeploymentError struct {
	Contract string
	Cause    error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("failed to deploy %s: %v", e.Contract, e.Cause)
}

func (e *DeploymentError) Unwrap() error {
	return e.Cause
}
