package retry

import (
	"context"
	"errors"
	"log/slog"
)

// NoRetryStrategy looks the receipt up once.
// A transaction that is not mined by then is reported as pending.
type NoRetryStrategy struct{}

// NewNoRetryStrategy creates a new NoRetryStrategy
func NewNoRetryStrategy() *NoRetryStrategy {
	return &NoRetryStrategy{}
}

// Execute runs the lookup once
func (s *NoRetryStrategy) Execute(ctx context.Context, txHash string, operation Operation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := operation()
	if errors.Is(err, ErrPending) {
		slog.Debug("Receipt not available and polling is disabled", "tx_hash", txHash)
	}
	return err
}

// Name returns the strategy name
func (s *NoRetryStrategy) Name() string {
	return "NoRetry"
}
