// Package contract binds the supply-chain ledger contract described by a
// build artifact to a wallet session.
package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var ErrNotDeployed = errors.New("smart contract not deployed on this network")

// Deployment is one entry of the artifact's networks map.
type Deployment struct {
	Address         string `json:"address"`
	TransactionHash string `json:"transactionHash,omitempty"`
}

// Descriptor is a contract build artifact: the ABI plus the address the
// contract was deployed at on each network, keyed by network id.
type Descriptor struct {
	ContractName string                `json:"contractName,omitempty"`
	RawABI       json.RawMessage       `json:"abi"`
	Networks     map[string]Deployment `json:"networks"`

	abi abi.ABI
}

// ParseDescriptor decodes an artifact and parses its ABI.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode descriptor: %w", err)
	}
	if len(d.RawABI) == 0 {
		return nil, fmt.Errorf("descriptor has no abi")
	}

	parsed, err := abi.JSON(bytes.NewReader(d.RawABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}
	d.abi = parsed
	return &d, nil
}

// LoadDescriptor reads the artifact from a file path or an http(s) URL.
func LoadDescriptor(ctx context.Context, source string, client *http.Client) (*Descriptor, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(ctx, source, client)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load descriptor %s: %w", source, err)
	}
	return ParseDescriptor(data)
}

func fetch(ctx context.Context, url string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// ABI returns the parsed interface definition.
func (d *Descriptor) ABI() abi.ABI {
	return d.abi
}

// AddressFor returns the deployment address on the given network.
func (d *Descriptor) AddressFor(networkID *big.Int) (common.Address, error) {
	if networkID == nil {
		return common.Address{}, ErrNotDeployed
	}
	deployment, ok := d.Networks[networkID.String()]
	if !ok || !common.IsHexAddress(deployment.Address) {
		return common.Address{}, fmt.Errorf("%w (network %s)", ErrNotDeployed, networkID)
	}

	address := common.HexToAddress(deployment.Address)
	if address == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w (network %s)", ErrNotDeployed, networkID)
	}
	return address, nil
}
