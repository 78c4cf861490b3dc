package pipeline

import (
	"log/slog"

	"supplychain/internal/metrics"
)

// Orderer receives worker results and releases them in sequence order.
// Workers finish out of order; the output keeps the order of the ids.
type Orderer[T any] struct {
	// State tracking
	nextExpected int                // Next sequence we can release
	pending      map[int]*Result[T] // Buffered out-of-order results
	out          []T
	reported     int // This orderer's share of PipelineQueueDepth
}

// NewOrderer creates an orderer expecting sequences start, start+1, ...
func NewOrderer[T any](start, capacity int) *Orderer[T] {
	return &Orderer[T]{
		nextExpected: start,
		pending:      make(map[int]*Result[T]),
		out:          make([]T, 0, capacity),
	}
}

// ProcessResult buffers result and releases every consecutive result
// starting from the next expected sequence
func (o *Orderer[T]) ProcessResult(result *Result[T]) {
	o.pending[result.Sequence] = result

	slog.Debug("Orderer received result",
		"sequence", result.Sequence,
		"worker_id", result.WorkerID,
		"pending_count", len(o.pending),
		"next_expected", o.nextExpected,
	)

	for {
		data, exists := o.pending[o.nextExpected]
		if !exists {
			break
		}
		o.out = append(o.out, data.Value)
		delete(o.pending, o.nextExpected)
		o.nextExpected++
	}

	o.report(len(o.pending))
}

// Release withdraws whatever this orderer still contributes to the queue
// depth gauge. Results stay available.
func (o *Orderer[T]) Release() {
	o.report(0)
}

func (o *Orderer[T]) report(depth int) {
	if delta := depth - o.reported; delta != 0 {
		metrics.PipelineQueueDepth.Add(float64(delta))
		o.reported = depth
	}
}

// Results returns the items released so far, in order
func (o *Orderer[T]) Results() []T {
	return o.out
}

// GetPendingCount returns the number of results waiting on an earlier sequence
func (o *Orderer[T]) GetPendingCount() int {
	return len(o.pending)
}

// GetNextExpected returns the next sequence we're waiting for
func (o *Orderer[T]) GetNextExpected() int {
	return o.nextExpected
}
