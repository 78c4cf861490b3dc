package pipeline

import (
	"context"
	"time"
)

// FetchFunc reads the item at position seq
type FetchFunc[T any] func(ctx context.Context, seq int) (T, error)

// Result is what a worker hands to the orderer
type Result[T any] struct {
	Sequence int
	Value    T

	// Processing metrics
	ProcessingTime time.Duration
	WorkerID       int
}

// Config contains configuration for a fetch run
type Config struct {
	WorkerCount       int // 0 picks DefaultWorkers
	ResultsBufferSize int
}

// DefaultWorkers bounds concurrent reads against one node
const DefaultWorkers = 4
