package models

import (
	"github.com/ethereum/go-ethereum/common"
)

// CreationReceipt holds the confirmed outcome of a contract-creation transaction
type CreationReceipt struct {
	TxHash          common.Hash
	ContractAddress common.Address
	BlockNumber     uint64
	GasUsed         uint64
}
