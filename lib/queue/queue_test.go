package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// deqWithTimeout dequeues one item or fails the test after the timeout
func deqWithTimeout[T any](t *testing.T, q *BlockingQueue[T], timeout time.Duration) (T, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	val, ok, err := q.DeQContext(ctx)
	if err != nil {
		t.Fatalf("Timeout waiting for item: %v", err)
	}
	return val, ok
}

// TestBasicOperations tests basic enqueue and dequeue functionality
func TestBasicOperations(t *testing.T) {
	q := NewBlockingQueue[int]()
	defer q.Close()

	for i := 0; i < 10; i++ {
		if !q.EnQ(i) {
			t.Fatalf("Failed to enqueue item %d", i)
		}
	}

	if q.Len() != 10 {
		t.Errorf("Expected length 10, got %d", q.Len())
	}

	for i := 0; i < 10; i++ {
		val, ok := deqWithTimeout(t, q, 100*time.Millisecond)
		if !ok || val != i {
			t.Errorf("Expected %d, got %v (ok=%t)", i, val, ok)
		}
	}

	if q.Len() != 0 {
		t.Errorf("Queue should be empty, but has length %d", q.Len())
	}
}

// TestDeQBlocksUntilEnQ verifies that DeQ parks the caller until an item arrives
func TestDeQBlocksUntilEnQ(t *testing.T) {
	q := NewBlockingQueue[string]()
	defer q.Close()

	got := make(chan string, 1)
	go func() {
		val, _ := q.DeQ()
		got <- val
	}()

	select {
	case val := <-got:
		t.Fatalf("DeQ returned %q before anything was enqueued", val)
	case <-time.After(50 * time.Millisecond):
		// Expected, still blocked
	}

	q.EnQ("hello")

	select {
	case val := <-got:
		if val != "hello" {
			t.Errorf("Expected 'hello', got %q", val)
		}
	case <-time.After(time.Second):
		t.Fatal("DeQ did not return after EnQ")
	}
}

// TestDeQContextCancel verifies that DeQContext honours cancellation
func TestDeQContextCancel(t *testing.T) {
	q := NewBlockingQueue[int]()
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, ok, err := q.DeQContext(ctx); err == nil || ok {
		t.Errorf("Expected context error, got ok=%t err=%v", ok, err)
	}
}

// TestConcurrentProducers verifies the queue with multiple producers and consumers
func TestConcurrentProducers(t *testing.T) {
	q := NewBlockingQueue[int]()

	const numProducers = 10
	const numConsumers = 4
	const itemsPerProducer = 1000
	totalItems := numProducers * itemsPerProducer

	var mu sync.Mutex
	received := make(map[int]bool)

	var consumers sync.WaitGroup
	consumers.Add(numConsumers)
	for c := 0; c < numConsumers; c++ {
		go func() {
			defer consumers.Done()
			for {
				val, ok := q.DeQ()
				if !ok {
					return
				}
				mu.Lock()
				if received[val] {
					t.Errorf("Duplicate item received: %v", val)
				}
				received[val] = true
				mu.Unlock()
			}
		}()
	}

	var producers sync.WaitGroup
	producers.Add(numProducers)
	for p := 0; p < numProducers; p++ {
		go func(producerID int) {
			defer producers.Done()
			base := producerID * itemsPerProducer
			for i := 0; i < itemsPerProducer; i++ {
				if !q.EnQ(base + i) {
					t.Errorf("Producer %d failed to enqueue item %d", producerID, i)
				}
			}
		}(p)
	}

	producers.Wait()
	q.Close()

	done := make(chan struct{})
	go func() {
		consumers.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Timeout waiting for consumers to finish")
	}

	if len(received) != totalItems {
		t.Errorf("Expected %d items, got %d", totalItems, len(received))
	}
}

// TestCloseQueue verifies closing behavior
func TestCloseQueue(t *testing.T) {
	q := NewBlockingQueue[int]()

	for i := 0; i < 5; i++ {
		q.EnQ(i)
	}

	q.Close()

	if !q.IsClosed() {
		t.Error("Queue should report closed")
	}

	if q.EnQ(100) {
		t.Error("Should not be able to enqueue after queue is closed")
	}

	// Existing items are still delivered
	for i := 0; i < 5; i++ {
		val, ok := deqWithTimeout(t, q, 100*time.Millisecond)
		if !ok || val != i {
			t.Errorf("Expected %d, got %v (ok=%t)", i, val, ok)
		}
	}

	if _, ok := deqWithTimeout(t, q, 100*time.Millisecond); ok {
		t.Error("DeQ should report a closed and drained queue")
	}
}

// TestCloseWakesBlockedReaders verifies that readers parked in DeQ return on Close
func TestCloseWakesBlockedReaders(t *testing.T) {
	q := NewBlockingQueue[int]()

	done := make(chan bool, 1)
	go func() {
		_, ok := q.DeQ()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		if ok {
			t.Error("Expected ok=false after Close")
		}
	case <-time.After(time.Second):
		t.Fatal("Blocked reader was not woken by Close")
	}
}

// TestEnQRacingClose verifies that every accepted item is delivered even when
// Close runs concurrently with the producers
func TestEnQRacingClose(t *testing.T) {
	for round := 0; round < 200; round++ {
		q := NewBlockingQueue[int]()

		var accepted atomic.Int64
		var producers sync.WaitGroup
		producers.Add(4)
		for p := 0; p < 4; p++ {
			go func() {
				defer producers.Done()
				for i := 0; i < 50; i++ {
					if q.EnQ(i) {
						accepted.Add(1)
					}
				}
			}()
		}

		q.Close()
		producers.Wait()

		delivered := 0
		for {
			_, ok := deqWithTimeout(t, q, time.Second)
			if !ok {
				break
			}
			delivered++
		}

		if int64(delivered) != accepted.Load() {
			t.Fatalf("Round %d: accepted %d items, delivered %d", round, accepted.Load(), delivered)
		}
	}
}

// TestOrderingUnderLoad tests that items from a single producer are received in order
func TestOrderingUnderLoad(t *testing.T) {
	q := NewBlockingQueue[int]()
	defer q.Close()

	const itemCount = 10000
	go func() {
		for i := 0; i < itemCount; i++ {
			q.EnQ(i)
		}
	}()

	for i := 0; i < itemCount; i++ {
		val, _ := deqWithTimeout(t, q, time.Second)
		if val != i {
			t.Fatalf("Expected item %d, got %d", i, val)
		}
	}
}

// BenchmarkSingleProducer benchmarks the queue with a single producer
func BenchmarkSingleProducer(b *testing.B) {
	q := NewBlockingQueue[int]()
	defer q.Close()

	go func() {
		for {
			if _, ok := q.DeQ(); !ok {
				return
			}
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.EnQ(i)
	}
}

// BenchmarkMultiProducer benchmarks the queue with multiple producers
func BenchmarkMultiProducer(b *testing.B) {
	q := NewBlockingQueue[int]()
	defer q.Close()

	go func() {
		for {
			if _, ok := q.DeQ(); !ok {
				return
			}
		}
	}()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			q.EnQ(i)
			i++
		}
	})
}
