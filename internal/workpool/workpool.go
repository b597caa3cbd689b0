package workpool

import (
	"context"
	"sync"
)

// Task processes item i. It receives a context that is not canceled when the
// dispatch context is, so a call already in flight runs to completion or to
// its own timeout.
type Task func(ctx context.Context, i int)

// Run dispatches tasks 0..n-1 in index order with at most limit in flight.
// Cancellation is checked before each dispatch: once ctx is done no further
// task starts, Run waits for the in-flight ones and returns ctx.Err().
// Each task owns index i, so writing results into slot i of a shared slice
// needs no locking.
func Run(ctx context.Context, n, limit int, task Task) error {
	sem := NewSemaphore(limit)
	taskCtx := context.WithoutCancel(ctx)

	var (
		wg      sync.WaitGroup
		stopErr error
	)
	for i := 0; i < n; i++ {
		if err := sem.Acquire(ctx); err != nil {
			stopErr = err
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release()
			task(taskCtx, i)
		}(i)
	}

	wg.Wait()
	return stopErr
}
