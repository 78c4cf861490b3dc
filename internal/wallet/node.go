package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
)

// JSON-RPC "method not found"
const codeMethodNotFound = -32601

// RPCCaller is satisfied by *rpc.Client.
type RPCCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// NodeProvider delegates account management and signing to the node
// itself (Ganache, a dev-mode geth, a wallet bridge). Accounts must be
// unlocked on the node side.
type NodeProvider struct {
	rpc    RPCCaller
	closer func()
}

// NewNodeProvider wraps an RPC connection. closer may be nil.
func NewNodeProvider(caller RPCCaller, closer func()) *NodeProvider {
	return &NodeProvider{rpc: caller, closer: closer}
}

// RequestAccounts prompts with eth_requestAccounts and falls back to
// eth_accounts on nodes that do not implement the EIP-1102 method.
func (p *NodeProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	err := p.rpc.CallContext(ctx, &accounts, "eth_requestAccounts")
	if err == nil {
		return accounts, nil
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == codeMethodNotFound {
		return p.Accounts(ctx)
	}
	return nil, err
}

func (p *NodeProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := p.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (p *NodeProvider) NetworkID(ctx context.Context) (*big.Int, error) {
	var version string
	if err := p.rpc.CallContext(ctx, &version, "net_version"); err != nil {
		return nil, err
	}
	id, ok := new(big.Int).SetString(version, 10)
	if !ok {
		return nil, fmt.Errorf("invalid net_version %q", version)
	}
	return id, nil
}

func (p *NodeProvider) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	var out hexutil.Bytes
	if err := p.rpc.CallContext(ctx, &out, "eth_call", toCallArg(msg), "latest"); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *NodeProvider) SendTransaction(ctx context.Context, from common.Address, req TxRequest) (common.Hash, error) {
	to := req.To
	arg := toCallArg(ethereum.CallMsg{From: from, To: &to, Value: req.Value, Data: req.Data})

	var hash common.Hash
	if err := p.rpc.CallContext(ctx, &hash, "eth_sendTransaction", arg); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (p *NodeProvider) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	err := p.rpc.CallContext(ctx, &receipt, "eth_getTransactionReceipt", hash)
	if err == nil && receipt == nil {
		return nil, ethereum.NotFound
	}
	return receipt, err
}

func (p *NodeProvider) Close() {
	if p.closer != nil {
		p.closer()
	}
}

func toCallArg(msg ethereum.CallMsg) map[string]interface{} {
	arg := map[string]interface{}{
		"from": msg.From,
		"to":   msg.To,
	}
	if len(msg.Data) > 0 {
		arg["data"] = hexutil.Bytes(msg.Data)
	}
	if msg.Value != nil {
		arg["value"] = (*hexutil.Big)(msg.Value)
	}
	return arg
}
