// Package pipeline fetches a run of sequentially numbered items with a
// small worker pool and returns them in sequence order.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"supplychain/internal/metrics"

	"golang.org/x/sync/errgroup"
)

// Run fetches items start .. start+count-1 in parallel and returns them in
// order. The first fetch error cancels the remaining work and is returned.
func Run[T any](ctx context.Context, config Config, start, count int, fetch FetchFunc[T]) ([]T, error) {
	if count <= 0 {
		return []T{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = DefaultWorkers
	}
	if workerCount > count {
		workerCount = count
	}
	bufferSize := config.ResultsBufferSize
	if bufferSize <= 0 {
		bufferSize = workerCount
	}

	runStart := time.Now()
	slog.Debug("Starting fetch pipeline",
		"worker_count", workerCount,
		"start", start,
		"count", count,
	)

	eg, egCtx := errgroup.WithContext(ctx)
	seqChan := make(chan int)
	resultsChan := make(chan *Result[T], bufferSize)

	// Feed sequences
	eg.Go(func() error {
		defer close(seqChan)
		for seq := start; seq < start+count; seq++ {
			select {
			case seqChan <- seq:
			case <-egCtx.Done():
				return egCtx.Err()
			}
		}
		return nil
	})

	// Start workers
	for i := 0; i < workerCount; i++ {
		w := NewWorker(i, fetch)
		eg.Go(func() error {
			return runWorker(egCtx, w, seqChan, resultsChan)
		})
	}
	// Gauges are shared by concurrent runs, so each run adds and removes its own share
	metrics.PipelineWorkerCount.Add(float64(workerCount))
	defer metrics.PipelineWorkerCount.Sub(float64(workerCount))

	// Close results once every worker is done
	done := make(chan error, 1)
	go func() {
		done <- eg.Wait()
		close(resultsChan)
	}()

	orderer := NewOrderer[T](start, count)
	defer orderer.Release()
	for result := range resultsChan {
		orderer.ProcessResult(result)
	}
	err := <-done

	if err != nil {
		return nil, err
	}

	slog.Debug("Fetch pipeline completed",
		"count", count,
		"duration_ms", time.Since(runStart).Milliseconds(),
	)
	return orderer.Results(), nil
}

// runWorker runs a single worker goroutine
func runWorker[T any](ctx context.Context, w *Worker[T], seqChan <-chan int, resultsChan chan<- *Result[T]) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case seq, ok := <-seqChan:
			if !ok {
				return nil
			}

			result, err := w.Process(ctx, seq)
			if err != nil {
				return err
			}

			select {
			case resultsChan <- result:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
