package concurrency

import (
	"context"
	"sync"
)

// Options configures parallel processing.
type Options struct {
	// MaxWorkers caps the number of goroutines working at once.
	MaxWorkers int
}

// DefaultOptions returns the default worker cap.
func DefaultOptions() Options {
	return Options{MaxWorkers: 8}
}

type indexed[R any] struct {
	index  int
	result R
	err    error
}

// Map runs itemFunc over items with a bounded worker pool and returns results
// in input order regardless of completion order. Per-item errors land in the
// errs slice at the item's index; the zero R stays in results for failed
// items. The page fetcher relies on both guarantees: pages reassemble by
// index and a failed page degrades to an empty one.
func Map[T any, R any](
	ctx context.Context,
	items []T,
	opts Options,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) (results []R, errs []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = DefaultOptions().MaxWorkers
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int)
	out := make(chan indexed[R], len(items))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					out <- indexed[R]{index: i, err: ctx.Err()}
				default:
					r, err := itemFunc(ctx, i, items[i])
					out <- indexed[R]{index: i, result: r, err: err}
				}
			}
		}()
	}

	go func() {
		for i := range items {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
		close(out)
	}()

	results = make([]R, len(items))
	errs = make([]error, len(items))
	for r := range out {
		results[r.index] = r.result
		errs[r.index] = r.err
	}
	return results, errs
}
