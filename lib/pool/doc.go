// Package pool provides a fixed-size pool of worker goroutines that all consume
// work items from one shared blocking queue.
//
// Each worker repeatedly dequeues the next item (FIFO, no priority) and hands it to the
// work function the pool was created with. A work function returns ErrStopWorker to make
// its worker exit, which is how callers implement cooperative cancellation at the
// "after dequeue" safe point. Stop closes the queue, lets the workers finish, and waits
// for them with a timeout. Items that were never dispatched can be collected with Drain.
//
// Usage:
//
//	p := pool.NewThreadPool[net.Conn](ctx, 4, func(ctx context.Context, c net.Conn) error {
//		if ctx.Err() != nil {
//			c.Close()
//			return pool.ErrStopWorker
//		}
//		go handle(c)
//		return nil
//	})
//	_ = p.Post(conn)
//	_ = p.Stop(5 * time.Second)
//
// Counters are always kept (see Stats). WithMetricsPrefix additionally exports them as
// VictoriaMetrics counters.
package pool
