package parallel

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsEveryTask(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Shutdown()

	var done atomic.Int64
	for i := 0; i < 100; i++ {
		require.NoError(t, pool.Submit(context.Background(), func() { done.Add(1) }))
	}

	pool.Wait()
	assert.Equal(t, int64(100), done.Load())
}

func TestWorkerPoolDefaultSize(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Shutdown()

	assert.Equal(t, runtime.NumCPU(), pool.Size())
}

func TestWorkerPoolShutdownWaitsForTasks(t *testing.T) {
	pool := NewWorkerPool(2)

	var done atomic.Int64
	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Submit(context.Background(), func() { done.Add(1) }))
	}
	pool.Shutdown()
	pool.Shutdown()

	assert.Equal(t, int64(10), done.Load())
	err := pool.Submit(context.Background(), func() {})
	assert.True(t, errors.Is(err, ErrPoolShutdown))
}

func TestWorkerPoolSubmitCancelled(t *testing.T) {
	pool := NewWorkerPool(1)
	release := make(chan struct{})

	// One task holds the worker and two fill the queue.
	for i := 0; i < 3; i++ {
		require.NoError(t, pool.Submit(context.Background(), func() { <-release }))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pool.Submit(ctx, func() {})
	assert.True(t, errors.Is(err, context.Canceled))

	close(release)
	pool.Shutdown()
}
