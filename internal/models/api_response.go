package models

import (
	"fmt"
	"math/big"
	"strings"
)

// Product is the view model of a getProduct result
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Price as stored on-chain and formatted for the UI
	PriceWei   string `json:"price_wei"`
	PriceEther string `json:"price_ether"` // Divided by 10^18

	Stage      Stage  `json:"stage"`
	StageLabel string `json:"stage_label"`
	Owner      string `json:"owner"`

	price *big.Int
}

// Purchasable reports whether the product is at the releasable stage
func (p *Product) Purchasable() bool {
	return p.Stage == StagePurchasable
}

// SetPrice records the on-chain price and fills in both display forms
func (p *Product) SetPrice(wei *big.Int) {
	p.price = new(big.Int).Set(wei)
	p.PriceWei = wei.String()
	p.PriceEther = WeiToEther(wei)
}

// Price returns a copy of the price recorded by SetPrice, or zero
func (p *Product) Price() *big.Int {
	if p.price == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(p.price)
}

// TxResult summarises a mined transaction
type TxResult struct {
	Method  string `json:"method"`
	TxHash  string `json:"tx_hash"`
	Block   uint64 `json:"block"`
	GasUsed uint64 `json:"gas_used"`
}

// ActionResult is what a form action renders on success
type ActionResult struct {
	Action   string    `json:"action"`
	Message  string    `json:"message"`
	Tx       *TxResult `json:"tx,omitempty"`
	Product  *Product  `json:"product,omitempty"`
	Products []Product `json:"products,omitempty"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"` // environment, validation, remote
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// WeiToEther converts wei (smallest unit) to an ether decimal string
// without trailing zeros. 1 ether = 10^18 wei
func WeiToEther(wei *big.Int) string {
	if wei == nil || wei.Sign() == 0 {
		return "0"
	}

	abs := new(big.Int).Abs(wei)
	whole, frac := new(big.Int).QuoRem(abs, weiPerEther, new(big.Int))

	sign := ""
	if wei.Sign() < 0 {
		sign = "-"
	}
	if frac.Sign() == 0 {
		return sign + whole.String()
	}

	fracStr := frac.String()
	fracStr = strings.TrimRight(strings.Repeat("0", 18-len(fracStr))+fracStr, "0")
	return fmt.Sprintf("%s%s.%s", sign, whole.String(), fracStr)
}

// EtherToWei parses an ether decimal ("0.05", "2") into wei. More than 18
// fractional digits or a negative amount is an error.
func EtherToWei(ether string) (*big.Int, error) {
	ether = strings.TrimSpace(ether)
	if ether == "" || strings.HasPrefix(ether, "-") || strings.HasPrefix(ether, "+") {
		return nil, fmt.Errorf("invalid ether amount %q", ether)
	}

	whole, frac, hasFrac := strings.Cut(ether, ".")
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (frac == "" || len(frac) > 18) {
		return nil, fmt.Errorf("invalid ether amount %q", ether)
	}

	digits := whole + frac + strings.Repeat("0", 18-len(frac))
	wei, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid ether amount %q", ether)
	}
	return wei, nil
}
