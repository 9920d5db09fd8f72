package pool

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/m-mizutani/ctxlog"
)

// ForEach fans items out over a fixed set of workers and blocks until all of
// them are processed or ctx is cancelled.
//
// Each worker owns the state produced by its own newState call for the
// worker's whole lifetime; state is never shared across workers. fn runs with
// panic recovery: a panicking item is logged with its stack and the worker
// moves on to the next item.
func ForEach[S, T any](ctx context.Context, workers int, items []T, newState func() S, fn func(ctx context.Context, state S, item T)) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}
	if len(items) == 0 {
		return
	}

	jobs := make(chan T)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state := newState()
			for item := range jobs {
				run(ctx, state, item, fn)
			}
		}()
	}

feed:
	for _, item := range items {
		select {
		case jobs <- item:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
}

func run[S, T any](ctx context.Context, state S, item T, fn func(ctx context.Context, state S, item T)) {
	defer func() {
		if r := recover(); r != nil {
			logger := ctxlog.From(ctx)
			logger.Error("panic in worker",
				"recover", r,
				"stack", string(debug.Stack()))
		}
	}()

	fn(ctx, state, item)
}
