// Package retry polls for transaction receipts. A lookup is repeated only
// while the receipt is pending or the node connection failed transiently;
// submitted actions themselves are never repeated.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrPending marks a receipt lookup for a transaction that has not been
// mined yet. It is always worth repeating.
var ErrPending = errors.New("operation pending")

// Strategy defines how a receipt lookup is repeated
type Strategy interface {
	// Execute runs operation for the transaction txHash until it succeeds,
	// fails permanently or the strategy gives up
	Execute(ctx context.Context, txHash string, operation Operation) error

	// Name returns the name of the strategy for logging
	Name() string
}

// Operation is one receipt lookup
type Operation func() error

// Recoverable reports whether a failed lookup is worth repeating
type Recoverable func(err error) bool

// Config holds receipt polling configuration
type Config struct {
	Enabled      bool          // Poll until mined, or look up once
	MaxRetries   int           // Lookups after the first one
	InitialDelay time.Duration // Wait before the second lookup
	MaxDelay     time.Duration // Cap on the doubling wait
	Recoverable  Recoverable   // nil uses IsTransient
}

// NewStrategy creates a polling strategy based on configuration
func NewStrategy(config Config) Strategy {
	if !config.Enabled {
		slog.Info("Receipt polling disabled, using NoRetryStrategy")
		return NewNoRetryStrategy()
	}

	slog.Info("Receipt polling enabled, using ExponentialBackoffStrategy",
		"max_retries", config.MaxRetries,
		"initial_delay", config.InitialDelay,
		"max_delay", config.MaxDelay,
	)

	return NewExponentialBackoffStrategy(
		config.MaxRetries,
		config.InitialDelay,
		config.MaxDelay,
		config.Recoverable,
	)
}
