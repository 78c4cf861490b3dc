package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Worker reads items for the sequences it is handed
type Worker[T any] struct {
	id    int
	fetch FetchFunc[T]
}

// NewWorker creates a worker around fetch
func NewWorker[T any](id int, fetch FetchFunc[T]) *Worker[T] {
	return &Worker[T]{id: id, fetch: fetch}
}

// Process reads a single item. Ordering is left to the Orderer
func (w *Worker[T]) Process(ctx context.Context, seq int) (*Result[T], error) {
	start := time.Now()

	value, err := w.fetch(ctx, seq)
	if err != nil {
		slog.Debug("Worker fetch failed",
			"worker_id", w.id,
			"sequence", seq,
			"error", err,
		)
		return nil, err
	}

	processingTime := time.Since(start)
	slog.Debug("Worker completed item",
		"worker_id", w.id,
		"sequence", seq,
		"duration_ms", processingTime.Milliseconds(),
	)

	return &Result[T]{
		Sequence:       seq,
		Value:          value,
		ProcessingTime: processingTime,
		WorkerID:       w.id,
	}, nil
}
