// Package threading provides single-assignment futures and promises,
// continuation chaining, multi-future combinators, a manual-reset event,
// and a structured-concurrency scope that joins every task it spawned
// before it is allowed to end.
//
// The building block is a synchronized single-assignment cell shared by a
// write-handle and one or more read-handles. A value crosses from the
// producing goroutine to the consumers exactly once; consumers block,
// poll, select, or chain continuations instead of busy-waiting.
//
// # Futures and Promises
//
// [NewPair] allocates a cell and returns its [Promise] (exclusive write
// capability) and [Future] (single-consumer read capability):
//
//	p, f := threading.NewPair[int]()
//	go func() { p.Set(42) }()
//	v, err := f.Take() // blocks until Set
//
// A promise is completed exactly once: a second [Promise.Set] returns
// [ErrAlreadySet]. [Promise.Break] abandons the promise, surfacing
// [ErrBrokenPromise] to every dependent. A [Future] is resolved through
// exactly one of Take, chaining, [Future.Shared], or a combinator; a
// second resolution panics. [Future.Shared] converts to a [SharedFuture],
// which any number of goroutines may [SharedFuture.Get] repeatedly.
//
// # Chaining
//
// [Then], [ThenErr] and [Flatten] compose pipelines by registering
// continuations that fire at the completion transition, in registration
// order:
//
//	total := threading.Then(fetch, func(r Response) int { return r.Size })
//
// # Combinators
//
// [WaitAll] joins a slice of futures into one future yielding every
// result in input order; [WaitAny] yields the index and value of the
// first future to complete. Neither cancels in-flight producers.
//
// # Events
//
// [Event] is a manual-reset readiness signal with no value: [Event.Signal]
// releases all current and future waiters until [Event.Reset].
//
// # Scopes
//
// [Enter] runs a function inside a [Scope] and blocks until every task
// spawned in it has completed, whatever the exit path:
//
//	threading.Enter(func(sc *threading.Scope) {
//	    a := threading.Async(sc, loadA)
//	    b := threading.Async(sc, loadB)
//	    merged, err := threading.WaitAll([]*threading.Future[Part]{a, b}).Take()
//	    ...
//	})
//
// [Async] returns the task's future immediately; [Scope.Spawn] runs
// fire-and-forget work; [Scope.Defer] queues LIFO cleanup callbacks that
// run after the join barrier. A task panic breaks its promise with a
// [*PanicError] cause; the scope still joins every sibling. [Go] spawns a
// free-standing task with no scope.
//
// # Execution Substrate
//
// Scopes and [Go] submit work through the [Executor] capability. The
// default runs one goroutine per task; [NewPoolExecutor] provides a
// fixed worker pool with queueing and stats; [SyncExecutor] runs inline
// for deterministic tests. Inject with [WithExecutor], bound concurrency
// with [WithLimit], observe completions with [WithOnDone].
//
// # Other Primitives
//
// [Semaphore] is a context-aware weighted semaphore. [Atom] is an
// atomically swappable value cell for values replaced over time.
//
// # Blocking Surface
//
// [Future.Take], [SharedFuture.Get], [Event.Wait], and the scope join are
// the only blocking operations. Set, Break, Signal, chaining, Async, and
// combinator construction never block the caller. The primitives carry no
// timeouts or cancellation; callers build those externally (e.g. via
// [Future.Done] in a select).
package threading
