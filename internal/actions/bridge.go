// Package actions holds the form-driven request/response handlers of the
// client bridge and the registry that maps action names to them.
package actions

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"supplychain/internal/contract"
	"supplychain/internal/metrics"
	"supplychain/internal/retry"
	"supplychain/internal/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Contract is the callable surface handlers use. *contract.Proxy implements it.
type Contract interface {
	Has(method string) bool
	Inputs(method string) int
	Call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error)
	Send(ctx context.Context, method string, value *big.Int, args ...interface{}) (*types.Receipt, error)
}

// Bridge is the session object passed into every handler: the wallet
// session, the bound contract and, when setup failed, the reason.
// It is not modified after Connect returns.
type Bridge struct {
	Session  *wallet.Session
	Contract Contract
	Address  common.Address
	Err      error
}

// Ready returns nil when handlers may call the contract, or an error
// wrapping ErrNotLoaded and the setup failure.
func (b *Bridge) Ready() error {
	if b != nil && b.Contract != nil {
		return nil
	}
	if b != nil && b.Err != nil {
		return fmt.Errorf("%w: %w", ErrNotLoaded, b.Err)
	}
	return ErrNotLoaded
}

// Account returns the active wallet account, or the zero address.
func (b *Bridge) Account() common.Address {
	if b == nil || b.Session == nil {
		return common.Address{}
	}
	return b.Session.Account
}

// DescriptorLoader fetches the contract descriptor.
type DescriptorLoader func(ctx context.Context) (*contract.Descriptor, error)

// Connect runs the one-time setup: wallet bootstrap, descriptor load and
// contract binding, in that order. It never fails outright; on error the
// returned bridge is inert and carries the cause in Err.
func Connect(ctx context.Context, provider wallet.Provider, load DescriptorLoader, waiter retry.Strategy) *Bridge {
	metrics.BridgeReady.Set(0)

	session, err := wallet.Bootstrap(ctx, provider)
	if err != nil {
		slog.Error("Wallet bootstrap failed", "error", err)
		metrics.ErrorsTotal.WithLabelValues(KindEnvironment).Inc()
		return &Bridge{Err: err}
	}

	descriptor, err := load(ctx)
	if err != nil {
		slog.Error("Failed to load contract descriptor", "error", err)
		metrics.ErrorsTotal.WithLabelValues(KindEnvironment).Inc()
		return &Bridge{Session: session, Err: err}
	}

	proxy, err := contract.Bind(ctx, session, descriptor, waiter)
	if err != nil {
		slog.Error("Contract binding failed", "error", err)
		metrics.ErrorsTotal.WithLabelValues(KindEnvironment).Inc()
		return &Bridge{Session: session, Err: err}
	}

	metrics.BridgeReady.Set(1)
	return &Bridge{Session: session, Contract: proxy, Address: proxy.Address()}
}
