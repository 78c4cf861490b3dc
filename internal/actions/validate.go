package actions

import (
	"math/big"
	"strings"

	"supplychain/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func requireFields(f Form, fields ...string) error {
	for _, field := range fields {
		if f.Get(field) == "" {
			return invalid(field, "%s is required", field)
		}
	}
	return nil
}

// parseAddress accepts a 20-byte hex address with or without 0x. Mixed-case
// input must carry a valid EIP-55 checksum.
func parseAddress(field, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, invalid(field, "%q is not a valid address", s)
	}
	address := common.HexToAddress(s)

	hex := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if hex != strings.ToLower(hex) && hex != strings.ToUpper(hex) {
		if address.Hex()[2:] != hex {
			return common.Address{}, invalid(field, "%q has an invalid checksum", s)
		}
	}
	return address, nil
}

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// parseID parses an unsigned decimal product id.
func parseID(field, s string) (*big.Int, error) {
	if s == "" {
		return nil, invalid(field, "%s is required", field)
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return nil, invalid(field, "%q is not a valid product id", s)
	}
	id, ok := new(big.Int).SetString(s, 10)
	if !ok || id.Cmp(maxUint256) > 0 {
		return nil, invalid(field, "%q is not a valid product id", s)
	}
	return id, nil
}

// parsePrice reads an ether decimal amount and returns wei.
func parsePrice(field, s string) (*big.Int, error) {
	if s == "" {
		return nil, invalid(field, "%s is required", field)
	}
	wei, err := models.EtherToWei(s)
	if err != nil {
		return nil, invalid(field, "%q is not a valid price in ether", s)
	}
	return wei, nil
}

func txResult(method string, receipt *types.Receipt) *models.TxResult {
	res := &models.TxResult{Method: method}
	if receipt == nil {
		return res
	}
	res.TxHash = receipt.TxHash.Hex()
	res.GasUsed = receipt.GasUsed
	if receipt.BlockNumber != nil {
		res.Block = receipt.BlockNumber.Uint64()
	}
	return res
}
