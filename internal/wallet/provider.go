// Package wallet acquires a signing session from a wallet provider.
//
// A Provider plays the role an injected browser wallet plays for a web
// page: it hands out accounts, reports the network it is connected to and
// submits transactions on behalf of an account it controls.
package wallet

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ErrNoProvider   = errors.New("no wallet provider available")
	ErrAccessDenied = errors.New("wallet account access denied")
	ErrNoAccounts   = errors.New("wallet returned no accounts")
)

// TxRequest describes a state-changing contract call for the provider to
// sign and submit.
type TxRequest struct {
	To    common.Address
	Value *big.Int // nil means zero
	Data  []byte
}

// Provider is the wallet boundary.
type Provider interface {
	// RequestAccounts asks the wallet to expose its accounts.
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	// Accounts lists already exposed accounts without prompting.
	Accounts(ctx context.Context) ([]common.Address, error)

	// NetworkID returns the network identifier (net_version) the wallet is on.
	NetworkID(ctx context.Context) (*big.Int, error)

	// CallContract executes a read-only call against the latest block.
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)

	// SendTransaction submits a transaction from the given account and
	// returns its hash without waiting for it to be mined.
	SendTransaction(ctx context.Context, from common.Address, req TxRequest) (common.Hash, error)

	// TransactionReceipt returns ethereum.NotFound while the transaction is pending.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)

	Close()
}
