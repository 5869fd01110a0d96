package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestProcessesAllItems verifies that every posted item reaches a worker
func TestProcessesAllItems(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int]bool)

	p := NewThreadPool[int](context.Background(), 3, func(_ context.Context, item int) error {
		mu.Lock()
		seen[item] = true
		mu.Unlock()
		return nil
	})

	for i := 0; i < 100; i++ {
		if err := p.Post(i); err != nil {
			t.Fatalf("Failed to post item %d: %v", i, err)
		}
	}

	if err := p.Stop(time.Second); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if len(seen) != 100 {
		t.Errorf("Expected 100 processed items, got %d", len(seen))
	}

	stats := p.Stats()
	if stats.Posted != 100 || stats.Processed != 100 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.ExitedWorkers != 3 {
		t.Errorf("Expected 3 exited workers, got %d", stats.ExitedWorkers)
	}
}

// TestSingleWorkerKeepsOrder verifies FIFO dispatch with one worker
func TestSingleWorkerKeepsOrder(t *testing.T) {
	var got []int
	p := NewThreadPool[int](context.Background(), 1, func(_ context.Context, item int) error {
		got = append(got, item)
		return nil
	})

	for i := 0; i < 50; i++ {
		_ = p.Post(i)
	}
	if err := p.Stop(time.Second); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	for i, v := range got {
		if v != i {
			t.Fatalf("Expected item %d at position %d, got %d", i, i, v)
		}
	}
}

// TestStopWorker verifies that ErrStopWorker ends a worker and leaves the rest queued
func TestStopWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int64
	p := NewThreadPool[int](ctx, 2, func(ctx context.Context, item int) error {
		calls.Add(1)
		if ctx.Err() != nil {
			return ErrStopWorker
		}
		return nil
	})

	for i := 0; i < 5; i++ {
		_ = p.Post(i)
	}

	deadline := time.Now().Add(time.Second)
	for p.Stats().ExitedWorkers < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if p.Stats().ExitedWorkers != 2 {
		t.Fatalf("Expected both workers to exit, got %d", p.Stats().ExitedWorkers)
	}

	if err := p.Stop(time.Second); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	left := p.Drain()
	if int64(len(left))+calls.Load() != 5 {
		t.Errorf("Expected %d undispatched items, got %d", 5-calls.Load(), len(left))
	}
}

// TestPostAfterStop verifies that a stopped pool rejects work
func TestPostAfterStop(t *testing.T) {
	p := NewThreadPool[int](context.Background(), 1, func(context.Context, int) error { return nil })
	if err := p.Stop(time.Second); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := p.Post(1); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("Expected ErrPoolStopped, got %v", err)
	}
	// second stop is a no-op
	if err := p.Stop(time.Second); err != nil {
		t.Errorf("Second Stop failed: %v", err)
	}
}

// TestStopTimeout verifies that Stop gives up on a stuck worker
func TestStopTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	p := NewThreadPool[int](context.Background(), 1, func(context.Context, int) error {
		<-release
		return nil
	}, WithMetricsPrefix[int]("pool_test_timeout"))

	_ = p.Post(1)
	time.Sleep(10 * time.Millisecond)

	if err := p.Stop(20 * time.Millisecond); !errors.Is(err, ErrStopTimeout) {
		t.Errorf("Expected ErrStopTimeout, got %v", err)
	}
}

// TestFailedItemsAreCounted verifies that work errors do not stop the worker
func TestFailedItemsAreCounted(t *testing.T) {
	p := NewThreadPool[int](context.Background(), 1, func(_ context.Context, item int) error {
		if item%2 == 0 {
			return errors.New("even")
		}
		return nil
	})

	for i := 0; i < 10; i++ {
		_ = p.Post(i)
	}
	if err := p.Stop(time.Second); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	stats := p.Stats()
	if stats.Failed != 5 || stats.Processed != 5 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}
