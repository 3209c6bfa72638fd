package threading

import "sync/atomic"

// WaitAll consumes every input future and returns one future that resolves
// after all inputs have, with the results in input order regardless of
// completion order. An empty input resolves immediately with an empty
// slice.
//
// There is no partial-failure short-circuit in the success path: every
// input still runs to completion. If any input fails, the aggregate fails
// with the first failure observed; the remaining inputs' results are
// discarded.
//
// Inputs must share one element type. Heterogeneous joins go through
// Future[any].
func WaitAll[T any](futures []*Future[T]) *Future[[]T] {
	p, out := NewPair[[]T]()
	n := len(futures)
	if n == 0 {
		_ = p.Set([]T{})
		return out
	}

	results := make([]T, n)
	var remaining atomic.Int64
	remaining.Store(int64(n))
	var failed atomic.Bool

	for i, f := range futures {
		f.consume()
		i := i
		// Each input writes its own slot; the decrement chain publishes
		// the writes to whichever input observes zero.
		f.c.subscribe(func(v T, err error) {
			if err != nil {
				if failed.CompareAndSwap(false, true) {
					_ = p.fail(err)
				}
				return
			}
			results[i] = v
			if remaining.Add(-1) == 0 {
				// Loses to p.fail if an input failed meanwhile.
				_ = p.Set(results)
			}
		})
	}
	return out
}

// AnyResult is the outcome of [WaitAny]: the winning input's position in
// the input slice and its value.
type AnyResult[T any] struct {
	Index int
	Value T
}

// WaitAny consumes every input future and returns a future that resolves
// as soon as the first input completes, with that input's index and value.
// If the winner failed, the aggregate fails with the winner's error (the
// index is not reported). Exactly one input wins, decided by an atomic
// compare-and-set; the losers' continuations still fire and their results
// are discarded. WaitAny does not cancel the losing producers.
//
// An empty input returns [ErrEmptySet] synchronously: a future over zero
// candidates would never resolve.
func WaitAny[T any](futures []*Future[T]) (*Future[AnyResult[T]], error) {
	if len(futures) == 0 {
		return nil, ErrEmptySet
	}

	p, out := NewPair[AnyResult[T]]()
	var won atomic.Bool

	for i, f := range futures {
		f.consume()
		i := i
		f.c.subscribe(func(v T, err error) {
			if !won.CompareAndSwap(false, true) {
				return
			}
			if err != nil {
				_ = p.fail(err)
				return
			}
			_ = p.Set(AnyResult[T]{Index: i, Value: v})
		})
	}
	return out, nil
}
