package blockchain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-support/internal/domain"
	"github.com/trebuchet-org/treb-support/internal/domain/config"
	"github.com/trebuchet-org/treb-support/internal/domain/models"
)

const emptyBloom = "0x" + "00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
	"00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
	"00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000" +
	"00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"

var (
	deployer    = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	contract    = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	creationTx  = common.HexToHash("0x6a3b0f0e7f1c6a2e4f3e9a9d1b7c3e5a0b6d2c8e4f1a3b5c7d9e0f2a4b6c8d0e")
	multicall2  = &models.Artifact{Name: "Multicall2", Bytecode: []byte{0x60, 0x80, 0x60, 0x40}}
	testTimeout = 5 * time.Second
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeNode is a minimal JSON-RPC node. Receipts become available after
// pendingPolls lookups.
type fakeNode struct {
	chainID      string
	status       string
	code         string
	pendingPolls int

	mu      sync.Mutex
	calls   map[string]int
	sentTxs []map[string]string
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		chainID: "0x7a69",
		status:  "0x1",
		code:    "0x6080",
		calls:   make(map[string]int),
	}
}

func (n *fakeNode) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		n.mu.Lock()
		n.calls[req.Method]++
		calls := n.calls[req.Method]
		var result any
		switch req.Method {
		case "eth_chainId":
			result = n.chainID
		case "eth_accounts":
			result = []string{"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", deployer.Hex()}
		case "eth_sendTransaction":
			var tx map[string]string
			require.NoError(t, json.Unmarshal(req.Params[0], &tx))
			n.sentTxs = append(n.sentTxs, tx)
			result = creationTx.Hex()
		case "eth_getTransactionReceipt":
			if calls <= n.pendingPolls {
				result = nil
				break
			}
			result = map[string]any{
				"transactionHash":   creationTx.Hex(),
				"blockNumber":       "0x1",
				"blockHash":         "0x" + strings.Repeat("11", 32),
				"transactionIndex":  "0x0",
				"contractAddress":   contract.Hex(),
				"cumulativeGasUsed": "0x5208",
				"gasUsed":           "0x5208",
				"logs":              []any{},
				"logsBloom":         emptyBloom,
				"status":            n.status,
				"type":              "0x2",
			}
		case "eth_getCode":
			result = n.code
		default:
			n.mu.Unlock()
			writeJSON(t, w, map[string]any{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error":   map[string]any{"code": -32601, "message": "method not found"},
			})
			return
		}
		n.mu.Unlock()

		writeJSON(t, w, map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result})
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func dial(t *testing.T, node *fakeNode, network *config.Network) (*Provider, error) {
	t.Helper()
	srv := httptest.NewServer(node.handler(t))
	t.Cleanup(srv.Close)

	if network == nil {
		network = &config.Network{Name: "localhost"}
	}
	network.RPCURL = srv.URL

	d := NewDialer(&config.RuntimeConfig{PollInterval: 10 * time.Millisecond}, nil)
	p, err := d.Dial(context.Background(), network)
	if err != nil {
		return nil, err
	}
	t.Cleanup(p.Close)
	return p.(*Provider), nil
}

func TestDialReportsChainID(t *testing.T) {
	p, err := dial(t, newFakeNode(), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(31337), p.ChainID())
}

func TestDialRejectsChainIDMismatch(t *testing.T) {
	_, err := dial(t, newFakeNode(), &config.Network{Name: "sepolia", ChainID: 11155111})
	assert.ErrorIs(t, err, domain.ErrInvalidChainID)
}

func TestListAccounts(t *testing.T) {
	p, err := dial(t, newFakeNode(), nil)
	require.NoError(t, err)

	accounts, err := p.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, deployer, accounts[1])
}

func TestDeployWaitsForReceipt(t *testing.T) {
	node := newFakeNode()
	node.pendingPolls = 2

	p, err := dial(t, node, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	receipt, err := p.Deploy(ctx, multicall2, deployer)
	require.NoError(t, err)
	assert.Equal(t, contract, receipt.ContractAddress)
	assert.Equal(t, creationTx, receipt.TxHash)
	assert.Equal(t, uint64(1), receipt.BlockNumber)
	assert.Equal(t, uint64(21000), receipt.GasUsed)

	node.mu.Lock()
	defer node.mu.Unlock()
	assert.Equal(t, 3, node.calls["eth_getTransactionReceipt"])
	require.Len(t, node.sentTxs, 1)
	assert.True(t, strings.EqualFold(deployer.Hex(), node.sentTxs[0]["from"]))
	assert.Equal(t, "0x60806040", node.sentTxs[0]["data"])
	// Gas and nonce are left to the node
	assert.NotContains(t, node.sentTxs[0], "gas")
	assert.NotContains(t, node.sentTxs[0], "nonce")
}

func TestDeployReverted(t *testing.T) {
	node := newFakeNode()
	node.status = "0x0"

	p, err := dial(t, node, nil)
	require.NoError(t, err)

	_, err = p.Deploy(context.Background(), multicall2, deployer)
	assert.ErrorIs(t, err, domain.ErrTransactionReverted)
}

func TestDeployEmptyCode(t *testing.T) {
	node := newFakeNode()
	node.code = "0x"

	p, err := dial(t, node, nil)
	require.NoError(t, err)

	_, err = p.Deploy(context.Background(), multicall2, deployer)
	assert.ErrorIs(t, err, domain.ErrEmptyCode)
}

func TestDeployStopsWithContext(t *testing.T) {
	node := newFakeNode()
	node.pendingPolls = 1 << 30

	p, err := dial(t, node, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = p.Deploy(ctx, multicall2, deployer)
	assert.ErrorContains(t, err, "deadline exceeded")
}

func TestDeployWithoutBytecode(t *testing.T) {
	p, err := dial(t, newFakeNode(), nil)
	require.NoError(t, err)

	_, err = p.Deploy(context.Background(), &models.Artifact{Name: "IMulticall"}, deployer)
	assert.ErrorContains(t, err, "no bytecode")
}
