//go:build !ios && !android && (amd64 || arm64)

package vsgo

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Executor runs units of work on some worker goroutine.
// Go must not block the caller.
type Executor interface {
	Go(task func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(task func())

// Go calls f(task).
func (f ExecutorFunc) Go(task func()) {
	f(task)
}

// Unbounded runs every task on its own goroutine.
var Unbounded Executor = ExecutorFunc(func(task func()) { go task() })

// WorkerPool runs at most Size tasks at a time. Tasks beyond the limit wait
// on their own goroutine, so Go returns immediately.
type WorkerPool struct {
	sem  *semaphore.Weighted
	size int
}

// NewWorkerPool creates a pool running up to size tasks concurrently.
// If size <= 0, runtime.NumCPU() is used.
func NewWorkerPool(size int) *WorkerPool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &WorkerPool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// Go schedules task on the pool.
func (p *WorkerPool) Go(task func()) {
	go func() {
		// Acquire only fails when the context is done.
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)
		task()
	}()
}

// Size returns the maximum number of concurrent tasks.
func (p *WorkerPool) Size() int {
	return p.size
}
