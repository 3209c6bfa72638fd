package threading

import (
	"sync"
	"sync/atomic"
)

// Executor is the "run this unit of work" capability consumed by [Scope]
// and [Go]. It is injected rather than ambient so the scheduling substrate
// can be swapped: native goroutines (the default), a fixed worker pool
// ([PoolExecutor]), or an inline executor for deterministic tests
// ([SyncExecutor]).
type Executor interface {
	// Execute arranges for fn to run. It may block (a bounded pool with a
	// full queue does) but must not run fn's side effects conditionally:
	// every accepted fn runs exactly once.
	Execute(fn func())
}

// goExecutor runs each unit of work on its own goroutine.
type goExecutor struct{}

func (goExecutor) Execute(fn func()) { go fn() }

// DefaultExecutor returns the executor used when none is injected:
// one goroutine per unit of work.
func DefaultExecutor() Executor { return goExecutor{} }

// SyncExecutor runs each unit of work inline on the submitting goroutine.
// It makes spawn order equal to completion order, which keeps scope and
// combinator behavior deterministic in tests.
type SyncExecutor struct{}

func (SyncExecutor) Execute(fn func()) { fn() }

// PoolExecutor is a fixed-size worker pool implementing [Executor].
// Units of work are queued via Execute and processed by a fixed number of
// worker goroutines. Call [PoolExecutor.Close] to drain the queue and stop
// the workers.
type PoolExecutor struct {
	tasks  chan func()
	wg     sync.WaitGroup
	closed atomic.Bool

	// Observability counters.
	submitted atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64
	inFlight  atomic.Int64
	workers   int
}

// PoolStats provides a point-in-time snapshot of pool activity.
type PoolStats struct {
	Submitted  int64 // total units submitted
	Completed  int64 // units finished
	Panicked   int64 // units that panicked
	InFlight   int64 // units currently executing
	QueueDepth int   // units waiting in the queue
	Workers    int   // worker count (fixed at creation)
}

// PoolOption configures a [PoolExecutor].
type PoolOption func(*poolConfig)

type poolConfig struct {
	queueSize int
}

// WithQueueSize sets the task queue buffer size. Default is n * 2.
// Panics if size is negative.
func WithQueueSize(size int) PoolOption {
	if size < 0 {
		panic("threading: WithQueueSize requires non-negative size")
	}
	return func(c *poolConfig) {
		c.queueSize = size
	}
}

// NewPoolExecutor creates a pool with n worker goroutines. Workers start
// immediately and process queued work until [PoolExecutor.Close] is called.
// Panics if n <= 0.
func NewPoolExecutor(n int, opts ...PoolOption) *PoolExecutor {
	if n <= 0 {
		panic("threading: NewPoolExecutor requires n > 0")
	}

	cfg := poolConfig{queueSize: n * 2}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &PoolExecutor{
		tasks:   make(chan func(), cfg.queueSize),
		workers: n,
	}

	p.wg.Add(n)
	for range n {
		go p.worker()
	}
	return p
}

func (p *PoolExecutor) worker() {
	defer p.wg.Done()
	for fn := range p.tasks {
		p.run(fn)
	}
}

// run executes one unit with panic containment so a panicking unit cannot
// kill its worker. Scope-submitted work never panics here (the scope
// recovers first); the counter exists for raw Execute callers.
func (p *PoolExecutor) run(fn func()) {
	p.inFlight.Add(1)
	defer func() {
		if r := recover(); r != nil {
			p.panicked.Add(1)
		}
		p.inFlight.Add(-1)
		p.completed.Add(1)
	}()
	fn()
}

// Submit queues fn for execution. It blocks while the queue is full.
// Returns [ErrPoolClosed] if the pool has been closed.
func (p *PoolExecutor) Submit(fn func()) (err error) {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	// Guard against the race between the closed check above and Close()
	// closing the tasks channel. If Close fires between the check and the
	// send, the send panics; we recover and return ErrPoolClosed.
	defer func() {
		if r := recover(); r != nil {
			err = ErrPoolClosed
		}
	}()

	p.tasks <- fn
	p.submitted.Add(1)
	return nil
}

// Execute implements [Executor]. It blocks while the queue is full.
// The [Executor] capability is infallible, so a closed pool is caller
// misuse and panics; use [PoolExecutor.Submit] when the closed state must
// be handled as an error.
func (p *PoolExecutor) Execute(fn func()) {
	if err := p.Submit(fn); err != nil {
		panic("threading: Execute called on closed pool")
	}
}

// TryExecute attempts to queue fn without blocking.
// Returns false if the queue is full or the pool is closed.
func (p *PoolExecutor) TryExecute(fn func()) (submitted bool) {
	if p.closed.Load() {
		return false
	}

	// Same TOCTOU guard as Execute.
	defer func() {
		if r := recover(); r != nil {
			submitted = false
		}
	}()

	select {
	case p.tasks <- fn:
		p.submitted.Add(1)
		return true
	default:
		return false
	}
}

// Stats returns a point-in-time snapshot of pool activity.
// Safe to call concurrently.
func (p *PoolExecutor) Stats() PoolStats {
	return PoolStats{
		Submitted:  p.submitted.Load(),
		Completed:  p.completed.Load(),
		Panicked:   p.panicked.Load(),
		InFlight:   p.inFlight.Load(),
		QueueDepth: len(p.tasks),
		Workers:    p.workers,
	}
}

// Close stops accepting new work and waits for queued and in-flight work
// to finish. Safe to call multiple times.
func (p *PoolExecutor) Close() {
	if p.closed.CompareAndSwap(false, true) {
		close(p.tasks)
	}
	p.wg.Wait()
}
