package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/treb-support/internal/domain"
	"github.com/trebuchet-org/treb-support/internal/domain/config"
	"github.com/trebuchet-org/treb-support/internal/domain/models"
	"github.com/trebuchet-org/treb-support/internal/usecase"
)

// DefaultPollInterval is how often receipts are polled while waiting
const DefaultPollInterval = 500 * time.Millisecond

// Dialer opens JSON-RPC connections to a node
type Dialer struct {
	log          *slog.Logger
	pollInterval time.Duration
}

// NewDialer creates a new JSON-RPC dialer
func NewDialer(cfg *config.RuntimeConfig, log *slog.Logger) *Dialer {
	interval := DefaultPollInterval
	if cfg != nil && cfg.PollInterval > 0 {
		interval = cfg.PollInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dialer{log: log, pollInterval: interval}
}

// Dial connects to the network's RPC endpoint and checks the chain ID when the
// network declares one
func (d *Dialer) Dial(ctx context.Context, network *config.Network) (usecase.NetworkProvider, error) {
	rpcClient, err := rpc.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	client := ethclient.NewClient(rpcClient)

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	if network.ChainID != 0 && chainID.Uint64() != network.ChainID {
		client.Close()
		return nil, fmt.Errorf("%w: expected %d, got %d", domain.ErrInvalidChainID, network.ChainID, chainID.Uint64())
	}

	d.log.Debug("connected to node", "network", network.Name, "rpc", network.RPCURL, "chainId", chainID)

	return &Provider{
		rpc:          rpcClient,
		client:       client,
		chainID:      chainID.Uint64(),
		log:          d.log,
		pollInterval: d.pollInterval,
	}, nil
}

// Provider talks to one node over JSON-RPC. Transactions are signed by the
// node for its unlocked accounts.
type Provider struct {
	rpc          *rpc.Client
	client       *ethclient.Client
	chainID      uint64
	log          *slog.Logger
	pollInterval time.Duration
}

// sendTxArgs is the eth_sendTransaction payload for a contract creation
type sendTxArgs struct {
	From common.Address `json:"from"`
	Data hexutil.Bytes  `json:"data"`
}

// ChainID returns the chain ID reported by the node
func (p *Provider) ChainID() uint64 {
	return p.chainID
}

// ListAccounts returns the node-managed accounts (eth_accounts)
func (p *Provider) ListAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := p.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("eth_accounts failed: %w", err)
	}
	return accounts, nil
}

// Deploy submits the creation transaction and waits for its receipt
func (p *Provider) Deploy(ctx context.Context, artifact *models.Artifact, from common.Address) (*models.CreationReceipt, error) {
	if len(artifact.Bytecode) == 0 {
		return nil, fmt.Errorf("artifact %s has no bytecode", artifact.Name)
	}

	var hash common.Hash
	args := sendTxArgs{From: from, Data: artifact.Bytecode}
	if err := p.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return nil, fmt.Errorf("eth_sendTransaction failed: %w", err)
	}
	p.log.Debug("submitted creation transaction", "contract", artifact.Name, "from", from, "tx", hash)

	receipt, err := p.waitMined(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("waiting for transaction %s: %w", hash.Hex(), err)
	}

	if receipt.Status == types.ReceiptStatusFailed {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionReverted, hash.Hex())
	}
	if receipt.ContractAddress == (common.Address{}) {
		return nil, fmt.Errorf("receipt for %s has no contract address", hash.Hex())
	}

	code, err := p.client.CodeAt(ctx, receipt.ContractAddress, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check code: %w", err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyCode, receipt.ContractAddress.Hex())
	}

	result := &models.CreationReceipt{
		TxHash:          hash,
		ContractAddress: receipt.ContractAddress,
		GasUsed:         receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}

	p.log.Debug("contract deployed", "contract", artifact.Name, "address", result.ContractAddress, "block", result.BlockNumber)
	return result, nil
}

// waitMined polls for the receipt until it exists or the context ends
func (p *Provider) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := p.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close closes the RPC connection
func (p *Provider) Close() {
	p.client.Close()
}

// Ensure the adapters implement the ports
var (
	_ usecase.NetworkDialer   = (*Dialer)(nil)
	_ usecase.NetworkProvider = (*Provider)(nil)
)
