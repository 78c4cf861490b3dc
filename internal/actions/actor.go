package actions

import (
	"context"
	"fmt"
	"strings"

	"supplychain/internal/models"
)

// Roles in the order actors take part in the supply chain.
var Roles = []string{"supplier", "manufacturer", "distributor", "retailer"}

var roleMethods = map[string]string{
	"supplier":     "addSupplier",
	"manufacturer": "addManufacturer",
	"distributor":  "addDistributor",
	"retailer":     "addRetailer",
}

// RoleMethod returns the contract operation that registers role.
func RoleMethod(role string) (string, bool) {
	method, ok := roleMethods[strings.ToLower(role)]
	return method, ok
}

// RegisterActor registers an address under a supply-chain role.
// Fields: role, name, address, location.
func RegisterActor(ctx context.Context, b *Bridge, f Form) (*models.ActionResult, error) {
	if err := b.Ready(); err != nil {
		return nil, err
	}
	if err := requireFields(f, "role", "name", "address", "location"); err != nil {
		return nil, err
	}

	role := strings.ToLower(f.Get("role"))
	method, ok := RoleMethod(role)
	if !ok {
		return nil, invalid("role", "unknown role %q (want one of %s)", f.Get("role"), strings.Join(Roles, ", "))
	}
	address, err := parseAddress("address", f.Get("address"))
	if err != nil {
		return nil, err
	}

	receipt, err := b.Contract.Send(ctx, method, nil, address, f.Get("name"), f.Get("location"))
	if err != nil {
		return nil, remote(method, err)
	}

	return &models.ActionResult{
		Message: fmt.Sprintf("Registered %s %s (%s)", role, f.Get("name"), address.Hex()),
		Tx:      txResult(method, receipt),
	}, nil
}
