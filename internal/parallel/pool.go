// Package parallel runs independent tasks on a fixed number of goroutines.
// It is used to presolve many problems of a file at the same time; each task
// owns its own presolver, so tasks share nothing but what they report.
package parallel

import (
	"context"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// WorkerPool manages a pool of goroutines executing submitted tasks. The task
// channel is buffered, so Submit blocks once every worker is busy and the
// buffer is full.
type WorkerPool struct {
	maxWorkers   int
	taskChan     chan func()
	workerWg     sync.WaitGroup // running workers
	taskWg       sync.WaitGroup // submitted tasks not yet finished
	shutdownChan chan struct{}
	once         sync.Once
}

// ErrPoolShutdown is returned when trying to submit tasks to a shutdown pool.
var ErrPoolShutdown = errors.New("worker pool has been shutdown")

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If maxWorkers is 0 or negative, it defaults to the number of CPU cores.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		maxWorkers:   maxWorkers,
		taskChan:     make(chan func(), maxWorkers*2),
		shutdownChan: make(chan struct{}),
	}

	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}

	return pool
}

// Size returns the number of workers.
func (wp *WorkerPool) Size() int { return wp.maxWorkers }

// worker runs tasks until the pool is shut down. Tasks already queued when
// Shutdown is called still run.
func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()

	for {
		select {
		case task := <-wp.taskChan:
			wp.run(task)
		case <-wp.shutdownChan:
			for {
				select {
				case task := <-wp.taskChan:
					wp.run(task)
				default:
					return
				}
			}
		}
	}
}

func (wp *WorkerPool) run(task func()) {
	defer wp.taskWg.Done()
	if task != nil {
		task()
	}
}

// Submit submits a task to the worker pool for execution.
// If the pool is full, this call will block until a worker becomes available
// or ctx is done.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	select {
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	default:
	}

	wp.taskWg.Add(1)
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		wp.taskWg.Done()
		return ctx.Err()
	case <-wp.shutdownChan:
		wp.taskWg.Done()
		return ErrPoolShutdown
	}
}

// Wait blocks until every task submitted so far has finished.
func (wp *WorkerPool) Wait() {
	wp.taskWg.Wait()
}

// Shutdown waits for the submitted tasks to finish and stops the workers.
// Submitting after Shutdown returns ErrPoolShutdown.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		wp.taskWg.Wait()
		close(wp.shutdownChan)
		wp.workerWg.Wait()
	})
}
