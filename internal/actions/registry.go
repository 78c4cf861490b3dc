package actions

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"supplychain/internal/debug"
	"supplychain/internal/metrics"
	"supplychain/internal/models"
)

// Action names as used in form targets and the CLI
const (
	ActionRegisterActor   = "registerActor"
	ActionRegisterProduct = "registerProduct"
	ActionQueryProduct    = "queryProduct"
	ActionPurchaseProduct = "purchaseProduct"
	ActionAdvanceStage    = "advanceStage"
	ActionListProducts    = "listProducts"
)

// Form holds submitted field values by name.
type Form map[string]string

// FormFromValues keeps the first value of each field.
func FormFromValues(values url.Values) Form {
	f := make(Form, len(values))
	for key := range values {
		f[key] = values.Get(key)
	}
	return f
}

// Get returns the trimmed value of a field.
func (f Form) Get(key string) string {
	return strings.TrimSpace(f[key])
}

// Handler runs one request/response cycle against the contract.
type Handler func(ctx context.Context, b *Bridge, f Form) (*models.ActionResult, error)

// Registry maps action names to handlers. It is built once during setup
// and only read afterwards.
type Registry struct {
	handlers map[string]Handler
	names    []string
}

// NewRegistry returns a registry with every supply-chain action registered.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register(ActionRegisterActor, RegisterActor)
	r.Register(ActionRegisterProduct, RegisterProduct)
	r.Register(ActionQueryProduct, QueryProduct)
	r.Register(ActionPurchaseProduct, PurchaseProduct)
	r.Register(ActionAdvanceStage, AdvanceStage)
	r.Register(ActionListProducts, ListProducts)
	return r
}

// Register adds or replaces a handler.
func (r *Registry) Register(name string, h Handler) {
	if _, exists := r.handlers[name]; !exists {
		r.names = append(r.names, name)
	}
	r.handlers[name] = h
}

func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names lists registered actions in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Dispatch runs the named handler and records the outcome.
func (r *Registry) Dispatch(ctx context.Context, name string, b *Bridge, f Form) (*models.ActionResult, error) {
	h, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	start := time.Now()
	result, err := h(ctx, b, f)
	if err != nil {
		kind := Kind(err)
		metrics.ActionsTotal.WithLabelValues(name, "error").Inc()
		metrics.ErrorsTotal.WithLabelValues(kind).Inc()
		slog.Warn("Action failed",
			"action", name,
			"kind", kind,
			"duration", time.Since(start),
			"error", err,
		)
		return nil, err
	}

	metrics.ActionsTotal.WithLabelValues(name, "ok").Inc()
	slog.Info("Action completed",
		"action", name,
		"duration", time.Since(start),
	)
	result.Action = name
	debug.PrintActionResult(result)
	return result, nil
}
