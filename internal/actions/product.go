package actions

import (
	"context"
	"fmt"
	"math/big"

	"supplychain/internal/models"
	"supplychain/internal/pipeline"

	"github.com/ethereum/go-ethereum/common"
)

// Contract operations on products
const (
	methodAddProduct      = "addProduct"
	methodGetProduct      = "getProduct"
	methodPurchaseProduct = "purchaseProduct"
	methodUpdateStage     = "updateStage"
	methodProductCount    = "productCount"
)

// maxListed bounds how many products ListProducts fetches.
const maxListed = 100

// RegisterProduct adds a product. Fields: name, description, price.
// price (ether) is only sent when addProduct takes a third argument.
func RegisterProduct(ctx context.Context, b *Bridge, f Form) (*models.ActionResult, error) {
	if err := b.Ready(); err != nil {
		return nil, err
	}
	if err := requireFields(f, "name", "description"); err != nil {
		return nil, err
	}

	args := []interface{}{f.Get("name"), f.Get("description")}
	if b.Contract.Inputs(methodAddProduct) >= 3 {
		price, err := parsePrice("price", f.Get("price"))
		if err != nil {
			return nil, err
		}
		args = append(args, price)
	}

	receipt, err := b.Contract.Send(ctx, methodAddProduct, nil, args...)
	if err != nil {
		return nil, remote(methodAddProduct, err)
	}
	return &models.ActionResult{
		Message: fmt.Sprintf("Registered product %s", f.Get("name")),
		Tx:      txResult(methodAddProduct, receipt),
	}, nil
}

// QueryProduct reads a product. Fields: productId.
func QueryProduct(ctx context.Context, b *Bridge, f Form) (*models.ActionResult, error) {
	if err := b.Ready(); err != nil {
		return nil, err
	}
	id, err := parseID("productId", f.Get("productId"))
	if err != nil {
		return nil, err
	}

	product, err := fetchProduct(ctx, b, id)
	if err != nil {
		return nil, err
	}
	return &models.ActionResult{
		Message: fmt.Sprintf("Product #%s: %s", product.ID, product.StageLabel),
		Product: product,
	}, nil
}

// PurchaseProduct buys a product at its listed price. Products that are
// not at the purchasable stage are rejected without sending anything.
// Fields: productId.
func PurchaseProduct(ctx context.Context, b *Bridge, f Form) (*models.ActionResult, error) {
	if err := b.Ready(); err != nil {
		return nil, err
	}
	id, err := parseID("productId", f.Get("productId"))
	if err != nil {
		return nil, err
	}

	product, err := fetchProduct(ctx, b, id)
	if err != nil {
		return nil, err
	}
	if !product.Purchasable() {
		return nil, invalid("productId", "product #%s is at stage %s; only products at %s can be purchased",
			product.ID, product.StageLabel, models.StagePurchasable.Label())
	}

	receipt, err := b.Contract.Send(ctx, methodPurchaseProduct, product.Price(), id)
	if err != nil {
		return nil, remote(methodPurchaseProduct, err)
	}
	return &models.ActionResult{
		Message: fmt.Sprintf("Purchased product #%s for %s ETH", product.ID, product.PriceEther),
		Tx:      txResult(methodPurchaseProduct, receipt),
		Product: product,
	}, nil
}

// AdvanceStage moves a product to its next stage. The contract decides
// whether the caller may do so. Fields: productId.
func AdvanceStage(ctx context.Context, b *Bridge, f Form) (*models.ActionResult, error) {
	if err := b.Ready(); err != nil {
		return nil, err
	}
	id, err := parseID("productId", f.Get("productId"))
	if err != nil {
		return nil, err
	}

	receipt, err := b.Contract.Send(ctx, methodUpdateStage, nil, id)
	if err != nil {
		return nil, remote(methodUpdateStage, err)
	}
	return &models.ActionResult{
		Message: fmt.Sprintf("Advanced stage of product #%s", id),
		Tx:      txResult(methodUpdateStage, receipt),
	}, nil
}

// ListProducts reads every product when the contract exposes productCount.
// Ids are zero-based; products are fetched concurrently and returned in id order.
func ListProducts(ctx context.Context, b *Bridge, f Form) (*models.ActionResult, error) {
	if err := b.Ready(); err != nil {
		return nil, err
	}
	if !b.Contract.Has(methodProductCount) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, methodProductCount)
	}

	out, err := b.Contract.Call(ctx, methodProductCount)
	if err != nil {
		return nil, remote(methodProductCount, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected %s output: %v", methodProductCount, out)
	}
	count, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s output type %T", methodProductCount, out[0])
	}

	n := maxListed
	if count.IsInt64() && count.Int64() < int64(n) {
		n = int(count.Int64())
	}

	products, err := pipeline.Run(ctx, pipeline.Config{}, 0, n, func(ctx context.Context, seq int) (models.Product, error) {
		product, err := fetchProduct(ctx, b, big.NewInt(int64(seq)))
		if err != nil {
			return models.Product{}, err
		}
		return *product, nil
	})
	if err != nil {
		return nil, err
	}

	return &models.ActionResult{
		Message:  fmt.Sprintf("%d of %s products", len(products), count),
		Products: products,
	}, nil
}

func fetchProduct(ctx context.Context, b *Bridge, id *big.Int) (*models.Product, error) {
	out, err := b.Contract.Call(ctx, methodGetProduct, id)
	if err != nil {
		return nil, remote(methodGetProduct, err)
	}
	product, err := decodeProduct(id, out)
	if err != nil {
		return nil, err
	}
	if product.Name == "" && product.Owner == (common.Address{}).Hex() {
		return nil, fmt.Errorf("%w: #%s", ErrProductNotFound, id)
	}
	return product, nil
}

// decodeProduct maps getProduct's (name, description, price, stage, owner) outputs.
func decodeProduct(id *big.Int, out []interface{}) (*models.Product, error) {
	if len(out) < 5 {
		return nil, fmt.Errorf("unexpected %s output: %d values", methodGetProduct, len(out))
	}

	name, ok1 := out[0].(string)
	description, ok2 := out[1].(string)
	price, ok3 := out[2].(*big.Int)
	owner, ok4 := out[4].(common.Address)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, fmt.Errorf("unexpected %s output types %T %T %T %T", methodGetProduct, out[0], out[1], out[2], out[4])
	}

	var stage models.Stage
	switch v := out[3].(type) {
	case uint8:
		stage = models.Stage(v)
	case *big.Int:
		if !v.IsUint64() || v.Uint64() > 255 {
			return nil, fmt.Errorf("stage out of range: %s", v)
		}
		stage = models.Stage(v.Uint64())
	default:
		return nil, fmt.Errorf("unexpected stage type %T", out[3])
	}

	product := &models.Product{
		ID:          id.String(),
		Name:        name,
		Description: description,
		Stage:       stage,
		StageLabel:  stage.Label(),
		Owner:       owner.Hex(),
	}
	product.SetPrice(price)
	return product, nil
}
