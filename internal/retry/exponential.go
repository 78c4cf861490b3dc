package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ExhaustedError is returned when a lookup was still failing after the
// last allowed attempt
type ExhaustedError struct {
	TxHash   string
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("receipt for %s unavailable after %d attempts: %v", e.TxHash, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// ExponentialBackoffStrategy repeats recoverable lookups, doubling the
// wait each time up to maxDelay
type ExponentialBackoffStrategy struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	recoverable  Recoverable
}

// NewExponentialBackoffStrategy creates a new ExponentialBackoffStrategy.
// A nil recoverable uses IsTransient
func NewExponentialBackoffStrategy(maxRetries int, initialDelay, maxDelay time.Duration, recoverable Recoverable) *ExponentialBackoffStrategy {
	if recoverable == nil {
		recoverable = IsTransient
	}
	return &ExponentialBackoffStrategy{
		maxRetries:   maxRetries,
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
		recoverable:  recoverable,
	}
}

// Execute polls until the lookup succeeds, fails with an unrecoverable
// error, or maxRetries repeats have been spent
func (s *ExponentialBackoffStrategy) Execute(ctx context.Context, txHash string, operation Operation) error {
	start := time.Now()

	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			if attempt > 1 {
				slog.Debug("Receipt lookup succeeded after polling",
					"tx_hash", txHash,
					"attempts", attempt,
					"elapsed", time.Since(start))
			}
			return nil
		}

		if !s.recoverable(err) {
			return err
		}
		if attempt > s.maxRetries {
			slog.Warn("Receipt polling gave up",
				"tx_hash", txHash,
				"attempts", attempt,
				"elapsed", time.Since(start),
				"error", err)
			return &ExhaustedError{TxHash: txHash, Attempts: attempt, Err: err}
		}

		wait := s.backoff(attempt)
		slog.Debug("Receipt not available yet, polling again",
			"tx_hash", txHash,
			"attempt", attempt,
			"retry_in", wait,
			"error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("receipt polling for %s cancelled: %w", txHash, ctx.Err())
		case <-timer.C:
		}
	}
}

// backoff returns the wait after the given attempt (1-based)
func (s *ExponentialBackoffStrategy) backoff(attempt int) time.Duration {
	wait := s.initialDelay
	for i := 1; i < attempt && wait < s.maxDelay; i++ {
		wait *= 2
	}
	if wait > s.maxDelay {
		wait = s.maxDelay
	}
	return wait
}

// Name returns the strategy name
func (s *ExponentialBackoffStrategy) Name() string {
	return "ExponentialBackoff"
}
