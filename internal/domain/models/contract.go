package models

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Artifact is a compiled contract: its interface and creation bytecode
type Artifact struct {
	Name     string          `json:"name" yaml:"name"`
	Source   string          `json:"source,omitempty" yaml:"source,omitempty"`
	Path     string          `json:"path" yaml:"path"`
	ABI      json.RawMessage `json:"abi" yaml:"-"`
	Bytecode []byte          `json:"-" yaml:"-"`
}

// FullyQualifiedName returns "Source.sol:Name" when the source is known
func (a *Artifact) FullyQualifiedName() string {
	if a.Source == "" {
		return a.Name
	}
	return fmt.Sprintf("%s:%s", a.Source, a.Name)
}

// SupportContract names a contract to deploy and the label printed for it
type SupportContract struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
}

// DefaultSupportContracts returns the support contracts in deployment order
func DefaultSupportContracts() []SupportContract {
	return []SupportContract{
		{Name: "Multicall2", Label: "Multicall Address"},
		{Name: "BalanceChecker", Label: "Balance Batcher Address"},
	}
}

// SupportContractsFor returns the support contracts resolved from the given
// artifact names. An empty name keeps the default.
func SupportContractsFor(multicall, balanceChecker string) []SupportContract {
	contracts := DefaultSupportContracts()
	if multicall != "" {
		contracts[0].Name = multicall
	}
	if balanceChecker != "" {
		contracts[1].Name = balanceChecker
	}
	return contracts
}

// DeployedContract is the outcome of one contract-creation transaction
type DeployedContract struct {
	Name        string         `json:"name" yaml:"name"`
	Label       string         `json:"label" yaml:"label"`
	Address     common.Address `json:"address" yaml:"address"`
	Deployer    common.Address `json:"deployer" yaml:"deployer"`
	TxHash      common.Hash    `json:"transactionHash" yaml:"transactionHash"`
	BlockNumber uint64         `json:"blockNumber" yaml:"blockNumber"`
	GasUsed     uint64         `json:"gasUsed" yaml:"gasUsed"`
	Artifact    *Artifact      `json:"artifact,omitempty" yaml:"artifact,omitempty"`
}
