package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dComm/lib/queue"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("pool")

// WorkFunc is executed by a worker for every item it dequeues.
// Returning ErrStopWorker makes the worker exit, any other error is counted and ignored.
type WorkFunc[T any] func(ctx context.Context, item T) error

// ThreadPool is a fixed set of workers consuming one shared queue
type ThreadPool[T any] struct {
	ctx     context.Context
	workers int
	work    WorkFunc[T]
	queue   *queue.BlockingQueue[T]
	wg      sync.WaitGroup

	lifecycleMu sync.Mutex
	stopped     bool

	posted    atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	exited    atomic.Int64

	metricsPrefix string
	metrics       *poolMetrics
}

// poolMetrics mirrors the always-on counters as exported VictoriaMetrics counters
type poolMetrics struct {
	posted    *metrics.Counter
	processed *metrics.Counter
	failed    *metrics.Counter
}

// Stats is a snapshot of the pool counters
type Stats struct {
	Workers       int
	QueueDepth    int
	Posted        int64
	Processed     int64
	Failed        int64
	ExitedWorkers int64
}

// Option configures a ThreadPool
type Option[T any] func(*ThreadPool[T])

// WithMetricsPrefix exports the pool counters as <prefix>_posted_total,
// <prefix>_processed_total and <prefix>_failed_total
func WithMetricsPrefix[T any](prefix string) Option[T] {
	return func(p *ThreadPool[T]) {
		p.metricsPrefix = prefix
	}
}

// NewThreadPool creates the pool and starts its workers.
// ctx is handed to every invocation of work, the pool itself never cancels it.
func NewThreadPool[T any](ctx context.Context, workers int, work WorkFunc[T], opts ...Option[T]) *ThreadPool[T] {
	if work == nil {
		panic(ErrNilWorkFunc)
	}
	if workers <= 0 {
		workers = 1
	}

	p := &ThreadPool[T]{
		ctx:     ctx,
		workers: workers,
		work:    work,
		queue:   queue.NewBlockingQueue[T](),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.metricsPrefix != "" {
		p.metrics = &poolMetrics{
			posted:    metrics.GetOrCreateCounter(p.metricsPrefix + "_posted_total"),
			processed: metrics.GetOrCreateCounter(p.metricsPrefix + "_processed_total"),
			failed:    metrics.GetOrCreateCounter(p.metricsPrefix + "_failed_total"),
		}
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(i)
	}

	Logger.Debugf("started thread pool with %d workers", workers)
	return p
}

// Post enqueues an item for the workers. It never blocks.
func (p *ThreadPool[T]) Post(item T) error {
	if !p.queue.EnQ(item) {
		return ErrPoolStopped
	}
	p.posted.Add(1)
	if p.metrics != nil {
		p.metrics.posted.Inc()
	}
	return nil
}

// worker is the loop run by each pool goroutine
func (p *ThreadPool[T]) worker(id int) {
	defer p.wg.Done()
	defer p.exited.Add(1)

	for {
		item, ok := p.queue.DeQ()
		if !ok {
			Logger.Debugf("worker %d: queue closed, exiting", id)
			return
		}

		err := p.work(p.ctx, item)
		if errors.Is(err, ErrStopWorker) {
			Logger.Debugf("worker %d: stop requested, exiting", id)
			return
		}

		if err != nil {
			p.failed.Add(1)
			if p.metrics != nil {
				p.metrics.failed.Inc()
			}
			Logger.Warningf("worker %d: work item failed: %v", id, err)
			continue
		}

		p.processed.Add(1)
		if p.metrics != nil {
			p.metrics.processed.Inc()
		}
	}
}

// Stop closes the work queue and waits up to timeout for every worker to exit.
// Workers still drain queued items until they exit. Calling Stop again is a no-op.
func (p *ThreadPool[T]) Stop(timeout time.Duration) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if p.stopped {
		return nil
	}
	p.queue.Close()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		p.stopped = true
		return nil
	case <-timer.C:
		return ErrStopTimeout
	}
}

// Drain removes and returns every item that is still queued.
// Only meaningful after Stop, when no worker consumes the queue any more.
func (p *ThreadPool[T]) Drain() []T {
	var items []T
	for p.queue.Len() > 0 {
		item, ok := p.queue.DeQ()
		if !ok {
			break
		}
		items = append(items, item)
	}
	return items
}

// Stats returns a snapshot of the pool counters
func (p *ThreadPool[T]) Stats() Stats {
	return Stats{
		Workers:       p.workers,
		QueueDepth:    p.queue.Len(),
		Posted:        p.posted.Load(),
		Processed:     p.processed.Load(),
		Failed:        p.failed.Load(),
		ExitedWorkers: p.exited.Load(),
	}
}
