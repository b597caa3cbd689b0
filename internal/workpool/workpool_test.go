package workpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunBoundsConcurrency(t *testing.T) {
	var inFlight, peak int32
	results := make([]int, 20)

	err := Run(context.Background(), len(results), 3, func(ctx context.Context, i int) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if cur <= p || atomic.CompareAndSwapInt32(&peak, p, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		results[i] = i * i
		atomic.AddInt32(&inFlight, -1)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
	for i, r := range results {
		if r != i*i {
			t.Errorf("results[%d] = %d", i, r)
		}
	}
}

func TestRunStopsDispatchOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var started int32
	var sawCanceled int32

	err := Run(ctx, 10, 1, func(taskCtx context.Context, i int) {
		atomic.AddInt32(&started, 1)
		if i == 1 {
			cancel()
		}
		time.Sleep(time.Millisecond)
		if taskCtx.Err() != nil {
			atomic.AddInt32(&sawCanceled, 1)
		}
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if started != 2 {
		t.Errorf("started = %d, want 2", started)
	}
	if sawCanceled != 0 {
		t.Error("in-flight task context should not be canceled")
	}
}

func TestRunZeroTasks(t *testing.T) {
	if err := Run(context.Background(), 0, 4, func(context.Context, int) { t.Error("task called") }); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestSemaphoreAcquireRespectsContext(t *testing.T) {
	s := NewSemaphore(1)
	if err := s.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	if err := s.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() error = %v, want deadline exceeded", err)
	}
	s.Release()
}
