// Package queue provides the unbounded blocking FIFO used by dComm for both
// pool work items and per-connection message buffering.
//
// Features and Guarantees:
//
//   - Lock-Free writes: EnQ appends to a linked list with atomic operations, so any number
//     of goroutines may produce concurrently without contending on a mutex
//   - Blocking reads: DeQ parks the caller until an item is available or the queue is closed
//   - Multiple consumers: items are handed out through a channel, so several goroutines
//     (e.g. pool workers) may call DeQ on the same queue
//   - FIFO per producer: items pushed by a single goroutine are delivered in push order.
//     Items from concurrent producers are ordered by which push completes first.
//   - Unbounded Size: EnQ never blocks and never applies backpressure
//   - Close: stops further writes; items already queued are still delivered
package queue
