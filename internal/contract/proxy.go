package contract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"supplychain/internal/debug"
	"supplychain/internal/metrics"
	"supplychain/internal/retry"
	"supplychain/internal/wallet"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrReverted = errors.New("transaction reverted")

// RevertedError reports a mined transaction with a failed status. Cause
// holds the error from replaying the call, which usually carries the
// revert reason.
type RevertedError struct {
	TxHash common.Hash
	Cause  error
}

func (e *RevertedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("transaction %s reverted", e.TxHash.Hex())
	}
	return fmt.Sprintf("transaction %s reverted: %v", e.TxHash.Hex(), e.Cause)
}

func (e *RevertedError) Is(target error) bool { return target == ErrReverted }

func (e *RevertedError) Unwrap() error { return e.Cause }

// Proxy is a callable binding of the contract ABI at one address for
// one wallet session. It is read-only after Bind and safe for concurrent use.
type Proxy struct {
	abi     abi.ABI
	address common.Address
	session *wallet.Session
	waiter  retry.Strategy
}

// Bind resolves the session's network, looks up the deployment address in
// the descriptor and returns a proxy. waiter drives receipt polling.
func Bind(ctx context.Context, session *wallet.Session, d *Descriptor, waiter retry.Strategy) (*Proxy, error) {
	if session == nil {
		return nil, wallet.ErrNoProvider
	}
	if waiter == nil {
		waiter = retry.NewNoRetryStrategy()
	}

	networkID, err := session.Provider.NetworkID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network id: %w", err)
	}
	address, err := d.AddressFor(networkID)
	if err != nil {
		return nil, err
	}

	slog.Info("Contract loaded",
		"contract", d.ContractName,
		"address", address.Hex(),
		"network", networkID.String(),
	)
	return &Proxy{
		abi:     d.ABI(),
		address: address,
		session: session,
		waiter:  waiter,
	}, nil
}

// Address returns the deployment address the proxy talks to.
func (p *Proxy) Address() common.Address {
	return p.address
}

// Account returns the session account calls are made from.
func (p *Proxy) Account() common.Address {
	return p.session.Account
}

// Has reports whether the ABI declares method.
func (p *Proxy) Has(method string) bool {
	_, ok := p.abi.Methods[method]
	return ok
}

// Inputs returns the number of arguments method takes, or -1 if undeclared.
func (p *Proxy) Inputs(method string) int {
	m, ok := p.abi.Methods[method]
	if !ok {
		return -1
	}
	return len(m.Inputs)
}

// Call runs a read-only method and returns its unpacked outputs.
func (p *Proxy) Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := p.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	start := time.Now()
	to := p.address
	raw, err := p.session.Provider.CallContract(ctx, ethereum.CallMsg{
		From: p.session.Account,
		To:   &to,
		Data: data,
	})
	metrics.ContractCallDuration.WithLabelValues("call").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}

	out, err := p.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	slog.Debug("Contract call", "method", method, "outputs", len(out))
	return out, nil
}

// Send submits a state-changing method and waits for its receipt. value is
// the amount of wei attached, nil for none.
func (p *Proxy) Send(ctx context.Context, method string, value *big.Int, args ...interface{}) (*types.Receipt, error) {
	data, err := p.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	start := time.Now()
	defer func() {
		metrics.ContractCallDuration.WithLabelValues("send").Observe(time.Since(start).Seconds())
	}()

	hash, err := p.session.Provider.SendTransaction(ctx, p.session.Account, wallet.TxRequest{
		To:    p.address,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, fmt.Errorf("%s transaction failed: %w", method, err)
	}
	metrics.TransactionsSubmitted.WithLabelValues(method).Inc()
	slog.Info("Transaction submitted", "method", method, "tx_hash", hash.Hex())

	receipt, err := p.waitMined(ctx, hash)
	if err != nil {
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		// Replay at the latest block to recover the revert reason.
		to := p.address
		_, callErr := p.session.Provider.CallContract(ctx, ethereum.CallMsg{
			From:  p.session.Account,
			To:    &to,
			Value: value,
			Data:  data,
		})
		return receipt, &RevertedError{TxHash: hash, Cause: callErr}
	}

	slog.Info("Transaction mined",
		"method", method,
		"tx_hash", hash.Hex(),
		"block", receipt.BlockNumber,
		"gas_used", receipt.GasUsed,
	)
	debug.PrintReceipt(receipt)
	return receipt, nil
}

func (p *Proxy) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	start := time.Now()

	var receipt *types.Receipt
	err := p.waiter.Execute(ctx, hash.Hex(), func() error {
		r, err := p.session.Provider.TransactionReceipt(ctx, hash)
		if errors.Is(err, ethereum.NotFound) {
			return fmt.Errorf("receipt %s: %w", hash.Hex(), retry.ErrPending)
		}
		if err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", hash.Hex(), err)
	}

	metrics.ReceiptWaitDuration.Observe(time.Since(start).Seconds())
	return receipt, nil
}
