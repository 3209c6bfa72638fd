package threading

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// cell is the synchronized single-assignment state shared by exactly one
// [Promise] and the [Future] / [SharedFuture] handles derived from it.
//
// The mutex guards the pre-completion state (slot, callbacks). Completion
// closes done, which both wakes blocking readers and publishes val/err: a
// channel close happens-before every receive from it, so completed cells
// are read without the lock.
type cell[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	completed bool
	val       T
	err       error
	callbacks []func(T, error)
}

func newCell[T any]() *cell[T] {
	return &cell[T]{done: make(chan struct{})}
}

// complete transitions the cell to its final state exactly once. Registered
// callbacks are drained outside the lock, on the completing goroutine, in
// registration order. Returns ErrAlreadySet on any attempt after the first.
func (c *cell[T]) complete(val T, err error) error {
	c.mu.Lock()
	if c.completed {
		c.mu.Unlock()
		return ErrAlreadySet
	}
	c.val = val
	c.err = err
	c.completed = true
	cbs := c.callbacks
	c.callbacks = nil
	close(c.done)
	c.mu.Unlock()

	for _, cb := range cbs {
		cb(val, err)
	}
	return nil
}

// subscribe registers cb to run exactly once with the cell's outcome.
// If the cell is already completed, cb runs inline on the caller.
func (c *cell[T]) subscribe(cb func(T, error)) {
	c.mu.Lock()
	if c.completed {
		val, err := c.val, c.err
		c.mu.Unlock()
		cb(val, err)
		return
	}
	c.callbacks = append(c.callbacks, cb)
	c.mu.Unlock()
}

// Promise is the exclusive write-handle to a single-assignment cell.
// Exactly one of [Promise.Set] or [Promise.Break] succeeds over its lifetime.
//
// A Promise whose futures have all been discarded may still be set; the
// write succeeds and nobody observes it.
type Promise[T any] struct {
	c *cell[T]
}

// Future is the single-consumer read-handle to a single-assignment cell.
//
// Each Future is resolved through exactly one of: [Future.Take], chaining
// via [Then] / [ThenErr] / [Flatten], conversion via [Future.Shared], or
// membership in a [WaitAll] / [WaitAny] set. A second resolution attempt
// panics. [Future.Done] and [Future.TryTake] failing with [ErrNotReady]
// do not count as resolution.
type Future[T any] struct {
	c        *cell[T]
	consumed atomic.Bool
}

// NewPair allocates a single-assignment cell and returns its write-handle
// and read-handle.
func NewPair[T any]() (*Promise[T], *Future[T]) {
	c := newCell[T]()
	return &Promise[T]{c: c}, &Future[T]{c: c}
}

// Completed returns a future that is already resolved with v.
func Completed[T any](v T) *Future[T] {
	c := newCell[T]()
	_ = c.complete(v, nil)
	return &Future[T]{c: c}
}

// Failed returns a future that is already resolved with err.
func Failed[T any](err error) *Future[T] {
	c := newCell[T]()
	var zero T
	_ = c.complete(zero, err)
	return &Future[T]{c: c}
}

// Set completes the promise with v, wakes every blocked reader, and runs
// registered continuations in registration order on the calling goroutine.
// Returns [ErrAlreadySet] if the promise was already completed; the earlier
// outcome is unaffected.
//
// Set never blocks.
func (p *Promise[T]) Set(v T) error {
	return p.c.complete(v, nil)
}

// Break abandons the promise: dependents observe [ErrBrokenPromise],
// wrapping cause when non-nil. This is the explicit equivalent of dropping
// a promise without setting it. Returns [ErrAlreadySet] if the promise was
// already completed.
func (p *Promise[T]) Break(cause error) error {
	var zero T
	err := ErrBrokenPromise
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrBrokenPromise, cause)
	}
	return p.c.complete(zero, err)
}

// Do runs fn synchronously and completes the promise with its outcome:
// Set on success, a failed completion carrying fn's error otherwise.
func (p *Promise[T]) Do(fn func() (T, error)) {
	v, err := fn()
	if err != nil {
		_ = p.fail(err)
		return
	}
	_ = p.Set(v)
}

// fail completes the cell with err as-is, without the broken-promise
// wrapping. Task errors travel through this path.
func (p *Promise[T]) fail(err error) error {
	var zero T
	return p.c.complete(zero, err)
}

// Completed reports whether the promise has been completed.
// The value may be stale in concurrent contexts.
func (p *Promise[T]) Completed() bool {
	select {
	case <-p.c.done:
		return true
	default:
		return false
	}
}

// consume claims the future's single resolution slot.
func (f *Future[T]) consume() {
	if !f.consumed.CompareAndSwap(false, true) {
		panic("threading: future already consumed")
	}
}

// Take consumes the future: it blocks until the cell completes, then
// returns the value, or the error the producer failed with. Calling Take
// (or any other resolving operation) on the same future twice panics.
func (f *Future[T]) Take() (T, error) {
	f.consume()
	<-f.c.done
	return f.c.val, f.c.err
}

// TryTake polls the future without blocking. Before completion it returns
// [ErrNotReady] and leaves the future unconsumed, so callers may poll in a
// loop and still Take later. On completion it consumes the future and
// behaves like [Future.Take].
func (f *Future[T]) TryTake() (T, error) {
	select {
	case <-f.c.done:
		f.consume()
		return f.c.val, f.c.err
	default:
		var zero T
		return zero, ErrNotReady
	}
}

// Done returns a channel that is closed when the cell completes. It does
// not consume the future and is intended for select statements.
func (f *Future[T]) Done() <-chan struct{} {
	return f.c.done
}

// Shared consumes the future and returns a multi-consumer handle over the
// same cell.
func (f *Future[T]) Shared() *SharedFuture[T] {
	f.consume()
	return &SharedFuture[T]{c: f.c}
}
