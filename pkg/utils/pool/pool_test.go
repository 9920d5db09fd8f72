package pool_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/binup-dev/binup/pkg/utils/pool"
)

func TestForEach(t *testing.T) {
	ctx := context.Background()

	t.Run("processes every item exactly once", func(t *testing.T) {
		items := make([]int, 100)
		for i := range items {
			items[i] = i
		}

		var mu sync.Mutex
		seen := map[int]int{}
		pool.ForEach(ctx, 8, items, func() struct{} { return struct{}{} },
			func(ctx context.Context, _ struct{}, item int) {
				mu.Lock()
				seen[item]++
				mu.Unlock()
			})

		gt.Equal(t, len(seen), 100)
		for _, n := range seen {
			gt.Equal(t, n, 1)
		}
	})

	t.Run("one state per worker", func(t *testing.T) {
		var constructed atomic.Int32
		items := []int{1, 2, 3, 4, 5, 6}

		pool.ForEach(ctx, 3, items, func() int {
			return int(constructed.Add(1))
		}, func(ctx context.Context, state int, item int) {})

		gt.Equal(t, constructed.Load(), int32(3))
	})

	t.Run("worker count capped to item count", func(t *testing.T) {
		var constructed atomic.Int32
		pool.ForEach(ctx, 10, []int{1}, func() int {
			return int(constructed.Add(1))
		}, func(ctx context.Context, state int, item int) {})

		gt.Equal(t, constructed.Load(), int32(1))
	})

	t.Run("empty input returns immediately", func(t *testing.T) {
		pool.ForEach(ctx, 4, nil, func() struct{} { return struct{}{} },
			func(ctx context.Context, _ struct{}, item int) {
				t.Error("fn must not run without items")
			})
	})

	t.Run("panicking item does not kill the worker", func(t *testing.T) {
		var done atomic.Int32
		pool.ForEach(ctx, 1, []int{1, 2, 3}, func() struct{} { return struct{}{} },
			func(ctx context.Context, _ struct{}, item int) {
				if item == 2 {
					panic("boom")
				}
				done.Add(1)
			})

		gt.Equal(t, done.Load(), int32(2))
	})

	t.Run("cancelled context stops feeding", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		var done atomic.Int32
		items := make([]int, 1000)
		pool.ForEach(cancelled, 2, items, func() struct{} { return struct{}{} },
			func(ctx context.Context, _ struct{}, item int) {
				done.Add(1)
			})

		gt.True(t, int(done.Load()) < len(items))
	})
}
