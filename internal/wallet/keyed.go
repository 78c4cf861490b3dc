package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Backend is the subset of ethclient.Client the keyed provider needs.
type Backend interface {
	NetworkID(ctx context.Context) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// KeyedProvider is a single-account wallet holding its private key in
// memory and signing transactions locally before broadcasting them.
type KeyedProvider struct {
	backend Backend
	key     *ecdsa.PrivateKey
	address common.Address
	closer  func()
}

// NewKeyedProvider creates a provider for key over backend. closer may be nil.
func NewKeyedProvider(backend Backend, key *ecdsa.PrivateKey, closer func()) *KeyedProvider {
	return &KeyedProvider{
		backend: backend,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		closer:  closer,
	}
}

// LoadKey reads a private key from a hex string, or from an encrypted
// keystore file when hexKey is empty.
func LoadKey(hexKey, keystorePath, passphrase string) (*ecdsa.PrivateKey, error) {
	if hexKey != "" {
		key, err := crypto.HexToECDSA(hexKey)
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		return key, nil
	}
	if keystorePath == "" {
		return nil, fmt.Errorf("%w: neither PRIVATE_KEY nor KEYSTORE_PATH is set", ErrNoAccounts)
	}

	keyJSON, err := os.ReadFile(keystorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}
	key, err := keystore.DecryptKey(keyJSON, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
	}
	return key.PrivateKey, nil
}

// Address returns the account the provider signs for.
func (p *KeyedProvider) Address() common.Address {
	return p.address
}

func (p *KeyedProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return p.Accounts(ctx)
}

func (p *KeyedProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	return []common.Address{p.address}, nil
}

func (p *KeyedProvider) NetworkID(ctx context.Context) (*big.Int, error) {
	return p.backend.NetworkID(ctx)
}

func (p *KeyedProvider) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	return p.backend.CallContract(ctx, msg, nil)
}

// SendTransaction signs a legacy transaction with the chain's latest signer.
// Gas is estimated by the node, so a call that would revert fails here with
// the node's revert message.
func (p *KeyedProvider) SendTransaction(ctx context.Context, from common.Address, req TxRequest) (common.Hash, error) {
	if from != p.address {
		return common.Hash{}, fmt.Errorf("account %s is not managed by this wallet", from.Hex())
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	chainID, err := p.backend.ChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get chain id: %w", err)
	}
	nonce, err := p.backend.PendingNonceAt(ctx, p.address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}
	gasPrice, err := p.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to suggest gas price: %w", err)
	}

	to := req.To
	gas, err := p.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  p.address,
		To:    &to,
		Value: value,
		Data:  req.Data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
	}

	// Legacy with EIP-155 signing so pre-London dev chains accept it
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     req.Data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), p.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := p.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return signed.Hash(), nil
}

func (p *KeyedProvider) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return p.backend.TransactionReceipt(ctx, hash)
}

func (p *KeyedProvider) Close() {
	if p.closer != nil {
		p.closer()
	}
}
