package concurrency

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMapPreservesInputOrder(t *testing.T) {
	items := []int{5, 3, 9, 1, 7}

	results, errs := Map(context.Background(), items, Options{MaxWorkers: 3},
		func(ctx context.Context, index int, item int) (string, error) {
			// Finish out of order on purpose.
			time.Sleep(time.Duration(item) * time.Millisecond)
			return fmt.Sprintf("v%d", item), nil
		})

	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, item := range items {
		if results[i] != fmt.Sprintf("v%d", item) {
			t.Errorf("result[%d] = %q, want v%d", i, results[i], item)
		}
		if errs[i] != nil {
			t.Errorf("unexpected error at %d: %v", i, errs[i])
		}
	}
}

func TestMapErrorsAlignWithItems(t *testing.T) {
	boom := errors.New("boom")
	items := []int{0, 1, 2, 3}

	results, errs := Map(context.Background(), items, Options{},
		func(ctx context.Context, index int, item int) (int, error) {
			if item == 2 {
				return 0, boom
			}
			return item * 10, nil
		})

	for i := range items {
		if i == 2 {
			if !errors.Is(errs[2], boom) {
				t.Errorf("expected boom at index 2, got %v", errs[2])
			}
			if results[2] != 0 {
				t.Errorf("failed item must keep the zero value, got %d", results[2])
			}
			continue
		}
		if errs[i] != nil {
			t.Errorf("unexpected error at %d: %v", i, errs[i])
		}
		if results[i] != i*10 {
			t.Errorf("result[%d] = %d, want %d", i, results[i], i*10)
		}
	}
}

func TestMapEmptyInput(t *testing.T) {
	results, errs := Map(context.Background(), nil, Options{},
		func(ctx context.Context, index int, item int) (int, error) { return 0, nil })
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil results, got %v", results)
	}
	if errs != nil {
		t.Errorf("expected nil errs, got %v", errs)
	}
}

func TestMapBoundsConcurrency(t *testing.T) {
	const limit = 2
	var active, peak atomic.Int32
	var mu sync.Mutex

	items := make([]int, 20)
	Map(context.Background(), items, Options{MaxWorkers: limit},
		func(ctx context.Context, index int, item int) (int, error) {
			n := active.Add(1)
			mu.Lock()
			if n > peak.Load() {
				peak.Store(n)
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			active.Add(-1)
			return 0, nil
		})

	if p := peak.Load(); p > limit {
		t.Errorf("observed %d concurrent workers, limit is %d", p, limit)
	}
}

func TestMapCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []int{1, 2, 3}
	_, errs := Map(ctx, items, Options{MaxWorkers: 1},
		func(ctx context.Context, index int, item int) (int, error) {
			return item, nil
		})

	canceled := 0
	for _, err := range errs {
		if errors.Is(err, context.Canceled) {
			canceled++
		}
	}
	if canceled == 0 {
		t.Error("expected at least one canceled item")
	}
}
