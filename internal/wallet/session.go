package wallet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Session is an open wallet connection with the account actions are sent from.
type Session struct {
	Provider Provider
	Account  common.Address
}

// Bootstrap requests account access and records the first account as the
// active identity. There is no retry: a failed bootstrap leaves the caller
// without a session.
func Bootstrap(ctx context.Context, provider Provider) (*Session, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}

	accounts, err := provider.RequestAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	slog.Info("Wallet connected", "account", accounts[0].Hex())
	return &Session{Provider: provider, Account: accounts[0]}, nil
}

// Options selects and configures the provider built by Dial.
type Options struct {
	RPCURL             string
	Kind               string // "keyed" or "node"
	PrivateKey         string
	KeystorePath       string
	KeystorePassphrase string
}

// Dial connects the provider described by opts.
func Dial(ctx context.Context, opts Options) (Provider, error) {
	if opts.RPCURL == "" {
		return nil, ErrNoProvider
	}

	client, err := rpc.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoProvider, err)
	}

	switch opts.Kind {
	case "node":
		return NewNodeProvider(client, client.Close), nil
	case "keyed", "":
		key, err := LoadKey(opts.PrivateKey, opts.KeystorePath, opts.KeystorePassphrase)
		if err != nil {
			client.Close()
			return nil, err
		}
		return NewKeyedProvider(ethclient.NewClient(client), key, client.Close), nil
	default:
		client.Close()
		return nil, fmt.Errorf("unknown provider kind %q", opts.Kind)
	}
}
