package threading

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPanic(t *testing.T, contains string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		require.Contains(t, fmt.Sprint(r), contains)
	}()
	fn()
}

func TestPoolExecutorRunsAllWork(t *testing.T) {
	pool := NewPoolExecutor(4)

	var count atomic.Int32
	var wg sync.WaitGroup

	wg.Add(100)
	for range 100 {
		pool.Execute(func() {
			defer wg.Done()
			count.Add(1)
		})
	}
	wg.Wait()
	pool.Close()

	assert.Equal(t, int32(100), count.Load())
}

func TestPoolExecutorCloseDrainsQueue(t *testing.T) {
	pool := NewPoolExecutor(2, WithQueueSize(50))

	var count atomic.Int32
	for range 20 {
		pool.Execute(func() {
			time.Sleep(time.Millisecond)
			count.Add(1)
		})
	}

	pool.Close()
	assert.Equal(t, int32(20), count.Load(), "Close must wait for queued work")
}

func TestPoolExecutorStats(t *testing.T) {
	pool := NewPoolExecutor(3)

	release := make(chan struct{})
	for range 3 {
		pool.Execute(func() { <-release })
	}

	// Wait for the workers to pick the tasks up.
	require.Eventually(t, func() bool {
		return pool.Stats().InFlight == 3
	}, time.Second, time.Millisecond)

	stats := pool.Stats()
	assert.Equal(t, int64(3), stats.Submitted)
	assert.Equal(t, 3, stats.Workers)

	close(release)
	pool.Close()

	stats = pool.Stats()
	assert.Equal(t, int64(3), stats.Completed)
	assert.Equal(t, int64(0), stats.InFlight)
}

func TestPoolExecutorContainsPanics(t *testing.T) {
	pool := NewPoolExecutor(1)

	pool.Execute(func() { panic("worker boom") })

	var ran atomic.Bool
	pool.Execute(func() { ran.Store(true) })
	pool.Close()

	assert.True(t, ran.Load(), "a panicking unit must not kill its worker")
	assert.Equal(t, int64(1), pool.Stats().Panicked)
}

func TestPoolExecutorTryExecute(t *testing.T) {
	pool := NewPoolExecutor(1, WithQueueSize(1))

	release := make(chan struct{})
	pool.Execute(func() { <-release }) // occupies the worker

	require.Eventually(t, func() bool {
		return pool.Stats().InFlight == 1
	}, time.Second, time.Millisecond)

	assert.True(t, pool.TryExecute(func() { <-release }), "queue has one free slot")
	assert.False(t, pool.TryExecute(func() {}), "queue is full")

	close(release)
	pool.Close()

	assert.False(t, pool.TryExecute(func() {}), "closed pool rejects work")
}

func TestPoolExecutorSubmit(t *testing.T) {
	pool := NewPoolExecutor(2)

	var count atomic.Int32
	var wg sync.WaitGroup

	wg.Add(10)
	for range 10 {
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	pool.Close()

	assert.Equal(t, int32(10), count.Load())
	assert.Equal(t, int64(10), pool.Stats().Submitted)
}

func TestPoolExecutorSubmitAfterCloseReturnsError(t *testing.T) {
	pool := NewPoolExecutor(1)
	pool.Close()

	err := pool.Submit(func() { t.Error("work submitted to a closed pool must not run") })
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPoolExecutorExecuteAfterClosePanics(t *testing.T) {
	pool := NewPoolExecutor(1)
	pool.Close()

	mustPanic(t, "Execute called on closed pool", func() {
		pool.Execute(func() {})
	})
}

func TestPoolExecutorCloseIdempotent(t *testing.T) {
	pool := NewPoolExecutor(2)
	pool.Close()
	pool.Close()
}

func TestPoolExecutorInvalidConfigPanics(t *testing.T) {
	mustPanic(t, "NewPoolExecutor requires n > 0", func() {
		NewPoolExecutor(0)
	})
	mustPanic(t, "WithQueueSize requires non-negative size", func() {
		WithQueueSize(-1)
	})
}

func TestSyncExecutorRunsInline(t *testing.T) {
	var ran bool
	SyncExecutor{}.Execute(func() { ran = true })
	assert.True(t, ran, "SyncExecutor must run before Execute returns")
}

func TestDefaultExecutorIsConcurrent(t *testing.T) {
	done := make(chan struct{})
	DefaultExecutor().Execute(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("default executor never ran the unit")
	}
}

func TestOptionValidation(t *testing.T) {
	mustPanic(t, "WithExecutor requires non-nil executor", func() {
		WithExecutor(nil)
	})
	mustPanic(t, "limit must be non-negative", func() {
		WithLimit(-1)
	})
}
