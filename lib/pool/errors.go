package pool

import "errors"

var (
	// ErrStopWorker is returned by a work function to make the calling worker exit
	ErrStopWorker = errors.New("stop worker")

	// ErrPoolStopped indicates the pool no longer accepts work
	ErrPoolStopped = errors.New("thread pool stopped")

	// ErrStopTimeout indicates the workers did not exit within the timeout
	ErrStopTimeout = errors.New("timeout waiting for workers to stop")

	// ErrNilWorkFunc indicates a nil work function was provided
	ErrNilWorkFunc = errors.New("work function cannot be nil")
)
