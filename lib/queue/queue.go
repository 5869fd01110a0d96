package queue

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// node represents a single element in the queue
type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// BlockingQueue is an unbounded, thread-safe FIFO queue.
// Writers append to a lock-free linked list, a single internal goroutine moves
// the items into an unbuffered channel from which any number of readers consume.
type BlockingQueue[T any] struct {
	head   atomic.Pointer[node[T]]
	tail   atomic.Pointer[node[T]]
	out    chan T
	size   atomic.Int64
	closed atomic.Bool

	// writers counts EnQ calls between their closed check and the link of their node
	writers atomic.Int64

	// Condition variable for the internal pump goroutine
	mu   sync.Mutex
	cond *sync.Cond
}

// NewBlockingQueue creates an empty queue and starts its pump goroutine.
// The goroutine exits after Close once all queued items have been handed out.
func NewBlockingQueue[T any]() *BlockingQueue[T] {
	// Create a sentinel node (dummy node at the beginning)
	sentinel := &node[T]{}

	q := &BlockingQueue[T]{
		out: make(chan T),
	}
	q.cond = sync.NewCond(&q.mu)

	q.head.Store(sentinel)
	q.tail.Store(sentinel)

	go q.pump()

	return q
}

// EnQ appends an item to the queue without blocking.
// Returns false if the queue is closed.
func (q *BlockingQueue[T]) EnQ(value T) bool {
	// register before the closed check, the pump does not exit while writers > 0
	q.writers.Add(1)
	if q.closed.Load() {
		q.writers.Add(-1)
		q.signal()
		return false
	}

	// count before publishing so Len never goes negative
	q.size.Add(1)

	newNode := &node[T]{value: value}
	var backoff uint8 = 0

	for {
		tailNode := q.tail.Load()
		next := tailNode.next.Load()

		if next == nil {
			if tailNode.next.CompareAndSwap(nil, newNode) {
				// CAS may fail if another producer already moved the tail, that is fine
				q.tail.CompareAndSwap(tailNode, newNode)

				q.writers.Add(-1)
				q.signal()
				return true
			}
		} else {
			// help a producer that appended but has not moved the tail yet
			q.tail.CompareAndSwap(tailNode, next)
		}

		/*
		 Exponential backoff under contention:
		  - few retries: spin with Gosched to avoid scheduler overhead
		  - more retries: yield so other producers can finish their append
		*/
		if backoff < 10 {
			backoff++
			for i := 0; i < 1<<backoff; i++ {
				runtime.Gosched()
			}
		}
		runtime.Gosched()
	}
}

// pump moves items from the linked list to the output channel
func (q *BlockingQueue[T]) pump() {
	defer close(q.out)

	for {
		hasItems := false

		for {
			head := q.head.Load()
			next := head.next.Load()
			if next == nil {
				break
			}
			hasItems = true

			value := next.value

			// move head pointer (frees the old sentinel)
			q.head.Store(next)

			q.out <- value

			// help the gc, the node is the new sentinel now
			var zero T
			next.value = zero
		}

		if hasItems {
			continue
		}

		q.mu.Lock()
		// closed must be read before the emptiness check: once closed is set and no
		// writer is in flight, no further node can be linked
		drained := q.closed.Load() && q.writers.Load() == 0
		empty := q.head.Load().next.Load() == nil
		if empty && drained {
			q.mu.Unlock()
			return
		}
		if empty {
			q.cond.Wait()
		}
		q.mu.Unlock()
	}
}

// signal wakes the pump, taking the lock so the signal can not slip in
// between its emptiness check and its Wait
func (q *BlockingQueue[T]) signal() {
	q.mu.Lock()
	q.cond.Signal()
	q.mu.Unlock()
}

// DeQ blocks until an item is available and removes it from the queue.
// ok is false once the queue is closed and every item has been consumed.
func (q *BlockingQueue[T]) DeQ() (value T, ok bool) {
	value, ok = <-q.out
	if ok {
		q.size.Add(-1)
	}
	return value, ok
}

// DeQContext is DeQ with cancellation.
// It returns ctx.Err() if the context is done before an item arrives.
func (q *BlockingQueue[T]) DeQContext(ctx context.Context) (value T, ok bool, err error) {
	select {
	case value, ok = <-q.out:
		if ok {
			q.size.Add(-1)
		}
		return value, ok, nil
	case <-ctx.Done():
		return value, false, ctx.Err()
	}
}

// Len returns the number of items enqueued but not yet dequeued.
// The value is a snapshot and may change right after the call.
func (q *BlockingQueue[T]) Len() int {
	return int(q.size.Load())
}

// Close prevents further writes and wakes the pump.
// Items already in the queue are still delivered to readers.
func (q *BlockingQueue[T]) Close() {
	q.mu.Lock()
	q.closed.Store(true)
	q.cond.Signal()
	q.mu.Unlock()
}

// IsClosed returns true if the queue is closed.
func (q *BlockingQueue[T]) IsClosed() bool {
	return q.closed.Load()
}
