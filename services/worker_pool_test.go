package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsTasksAndDrainsOnClose(t *testing.T) {
	pool := NewWorkerPool(2, 16, time.Second, nil)

	var ran int32
	for i := 0; i < 10; i++ {
		if !pool.Submit(context.Background(), "count", func(context.Context) {
			atomic.AddInt32(&ran, 1)
		}) {
			t.Fatalf("expected task %d to be accepted", i)
		}
	}
	pool.Close()

	if got := atomic.LoadInt32(&ran); got != 10 {
		t.Fatalf("expected 10 tasks to run, got %d", got)
	}
	if pool.Submit(context.Background(), "late", func(context.Context) {}) {
		t.Fatalf("expected submit after close to be rejected")
	}
	pool.Close() // idempotent
}

func TestWorkerPoolDropsWhenQueueFull(t *testing.T) {
	pool := NewWorkerPool(1, 1, time.Second, nil)
	release := make(chan struct{})
	started := make(chan struct{})

	pool.Submit(context.Background(), "blocker", func(context.Context) {
		close(started)
		<-release
	})
	<-started

	if !pool.Submit(context.Background(), "queued", func(context.Context) {}) {
		t.Fatalf("expected one task to fit in the queue")
	}
	if pool.Submit(context.Background(), "dropped", func(context.Context) {}) {
		t.Fatalf("expected full queue to drop the task")
	}

	close(release)
	pool.Close()
}

func TestWorkerPoolTaskTimeoutAndDetachedContext(t *testing.T) {
	pool := NewWorkerPool(1, 1, 20*time.Millisecond, nil)

	reqCtx, cancel := context.WithCancel(context.Background())
	cancel() // request already finished

	result := make(chan error, 1)
	pool.Submit(reqCtx, "slow", func(ctx context.Context) {
		select {
		case <-ctx.Done():
			result <- ctx.Err()
		case <-time.After(time.Second):
			result <- nil
		}
	})
	pool.Close()

	if err := <-result; err != context.DeadlineExceeded {
		t.Fatalf("expected task deadline, got %v", err)
	}
}

func TestWorkerPoolRecoversPanics(t *testing.T) {
	pool := NewWorkerPool(1, 4, time.Second, nil)

	var after int32
	pool.Submit(context.Background(), "boom", func(context.Context) { panic("boom") })
	pool.Submit(context.Background(), "after", func(context.Context) { atomic.StoreInt32(&after, 1) })
	pool.Close()

	if atomic.LoadInt32(&after) != 1 {
		t.Fatalf("expected worker to survive a panicking task")
	}
}
