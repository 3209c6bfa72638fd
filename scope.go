package threading

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Scope is a structured-concurrency boundary: tasks spawned inside it are
// guaranteed to have completed before the scope is allowed to end, so no
// task outlives the lexical region (and the captured state) it was started
// in. The join barrier is the scope's release action.
//
// A Scope is created via [NewScope] and finalized by calling [Scope.Wait],
// or driven through [Enter] which does both around a function. [Async]
// spawns a task producing a typed [Future]; [Scope.Spawn] runs
// fire-and-forget work; [Scope.Defer] queues callbacks to run after the
// join.
type Scope struct {
	cfg config
	sem *Semaphore

	wg     sync.WaitGroup
	closed atomic.Bool

	deferMu sync.Mutex
	defers  []func()

	panicMu   sync.Mutex
	taskPanic *PanicError

	joinOnce sync.Once

	// Observability counters.
	totalSpawned atomic.Int64
	activeTasks  atomic.Int64
}

// NewScope creates a scope with zero outstanding tasks, for manual
// lifecycle control. The caller must call [Scope.Wait] to finalize.
//
// Prefer [Enter] for most use cases; use NewScope when the scope must
// cross function boundaries or integrate with existing lifecycle
// management.
func NewScope(opts ...Option) *Scope {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	sc := &Scope{cfg: cfg}
	if cfg.limit > 0 {
		sc.sem = NewSemaphore(cfg.limit)
	}
	return sc
}

// Enter creates a [Scope], invokes fn with it, then blocks until every
// spawned task has completed and runs the deferred callbacks. The join
// happens on every exit path: if fn panics, Enter still joins all tasks
// before re-raising. fn's own panic takes priority over task panics.
//
// Enter is the primary entry point for structured concurrency.
func Enter(fn func(sc *Scope), opts ...Option) {
	sc := NewScope(opts...)

	defer func() {
		// Capture any panic from fn before the barrier: siblings must
		// never be leaked, whatever the exit path.
		enterPanic := recover()

		sc.join()

		if enterPanic != nil {
			panic(enterPanic)
		}
		if pv := sc.firstPanic(); pv != nil {
			panic(pv)
		}
	}()

	fn(sc)
}

// Wait closes the scope, blocks until every spawned task has completed,
// then runs deferred callbacks in LIFO order. If a [Scope.Spawn] task
// panicked, Wait re-raises the captured [*PanicError] after the join;
// [Async] task panics travel through their futures instead and do not
// re-raise here.
//
// Wait is idempotent; the join runs once.
func (sc *Scope) Wait() {
	sc.join()

	if pv := sc.firstPanic(); pv != nil {
		panic(pv)
	}
}

// join is the exit barrier: no new tasks, wait for all outstanding ones,
// then run deferred callbacks newest-first.
func (sc *Scope) join() {
	sc.joinOnce.Do(func() {
		sc.closed.Store(true)
		sc.wg.Wait()

		sc.deferMu.Lock()
		defers := sc.defers
		sc.defers = nil
		sc.deferMu.Unlock()

		for i := len(defers) - 1; i >= 0; i-- {
			defers[i]()
		}
	})
}

// Defer registers fn to run on the scope's exit path, after the join
// barrier. Callbacks run in LIFO order on the goroutine that finalizes
// the scope. Panics if the scope has already been finalized.
func (sc *Scope) Defer(fn func()) {
	if sc.closed.Load() {
		panic("threading: Defer called after scope shutdown")
	}
	sc.deferMu.Lock()
	sc.defers = append(sc.defers, fn)
	sc.deferMu.Unlock()
}

// Spawn submits fire-and-forget work to the scope's executor. The task is
// tracked by the join barrier but produces no future; if it panics, the
// panic is captured and re-raised by [Scope.Wait]. Use [Async] for work
// that produces a value.
//
// Spawn panics once the scope has shut down. Calling it concurrently with
// [Scope.Wait] is caller misuse: tasks must be spawned before the join
// barrier starts (from the scope's owner or from a task the barrier is
// already tracking).
func (sc *Scope) Spawn(fn func()) {
	sc.run(func() error {
		fn()
		return nil
	}, sc.recordPanic)
}

// run is the single spawn path: bookkeeping, concurrency limit, panic
// containment, completion hook.
func (sc *Scope) run(task func() error, onPanic func(*PanicError)) {
	// Check closed BEFORE wg.Add to avoid a TOCTOU race with join()'s
	// wg.Wait().
	if sc.closed.Load() {
		panic("threading: Spawn called after scope shutdown")
	}

	sc.wg.Add(1)
	sc.totalSpawned.Add(1)

	sc.cfg.executor.Execute(func() {
		defer sc.wg.Done()

		if sc.sem != nil {
			// The scope has no cancellation of its own; the semaphore
			// stays context-aware for standalone users.
			_ = sc.sem.Acquire(context.Background())
			defer sc.sem.Release()
		}

		sc.activeTasks.Add(1)
		defer sc.activeTasks.Add(-1)

		start := time.Now()
		err := exec(task, onPanic)
		if sc.cfg.onDone != nil {
			// A panic in the hook is intentionally unrecovered:
			// observability hooks must not panic.
			sc.cfg.onDone(time.Since(start), err)
		}
	})
}

// exec runs task with panic recovery, routing a recovered panic to
// onPanic and returning it as the task error.
func exec(task func() error, onPanic func(*PanicError)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			pe := newPanicError(r)
			err = pe
			onPanic(pe)
		}
	}()
	return task()
}

// recordPanic keeps the first Spawn-task panic for Wait to re-raise.
func (sc *Scope) recordPanic(pe *PanicError) {
	sc.panicMu.Lock()
	if sc.taskPanic == nil {
		sc.taskPanic = pe
	}
	sc.panicMu.Unlock()
}

func (sc *Scope) firstPanic() *PanicError {
	sc.panicMu.Lock()
	defer sc.panicMu.Unlock()
	return sc.taskPanic
}

// ActiveTasks returns the number of tasks currently executing within the
// scope.
func (sc *Scope) ActiveTasks() int64 {
	return sc.activeTasks.Load()
}

// TotalSpawned returns the total number of tasks spawned within the
// scope, including those that have already completed.
func (sc *Scope) TotalSpawned() int64 {
	return sc.totalSpawned.Load()
}

// Async submits fn to the scope's executor and immediately returns a
// future for its outcome. A normal return completes the future with fn's
// value or error; a panic breaks the promise with a [*PanicError] cause,
// so the future's error matches both [ErrBrokenPromise] and *PanicError.
//
// The scope's join barrier waits for the task either way: one failing
// task never aborts or leaks its siblings. The returned future may be
// resolved inside the scope or after [Scope.Wait]; the barrier itself
// performs the equivalent of resolving every outstanding future.
//
// Like [Scope.Spawn], Async panics once the scope has shut down, and
// calling it concurrently with [Scope.Wait] is caller misuse.
func Async[T any](sc *Scope, fn func() (T, error)) *Future[T] {
	p, f := NewPair[T]()

	sc.run(func() error {
		v, err := fn()
		if err != nil {
			_ = p.fail(err)
			return err
		}
		_ = p.Set(v)
		return nil
	}, func(pe *PanicError) {
		_ = p.Break(pe)
	})

	return f
}

// Go runs fn on the default executor, outside any scope, and returns a
// future for its outcome. Panic handling matches [Async]. The caller owns
// the task's lifetime: nothing joins it except resolving the future.
func Go[T any](fn func() (T, error)) *Future[T] {
	p, f := NewPair[T]()

	DefaultExecutor().Execute(func() {
		_ = exec(func() error {
			v, err := fn()
			if err != nil {
				_ = p.fail(err)
				return err
			}
			_ = p.Set(v)
			return nil
		}, func(pe *PanicError) {
			_ = p.Break(pe)
		})
	})

	return f
}
