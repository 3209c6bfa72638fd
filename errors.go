package threading

import "errors"

var (
	// ErrAlreadySet is returned by [Promise.Set] and [Promise.Break] when
	// the promise has already been completed. The first completion stands;
	// the failed call has no side effect.
	ErrAlreadySet = errors.New("threading: promise already set")

	// ErrBrokenPromise is the failure observed through a [Future] whose
	// [Promise] was abandoned via [Promise.Break] before producing a value,
	// or whose producing task terminated abnormally.
	ErrBrokenPromise = errors.New("threading: broken promise")

	// ErrEmptySet is returned by [WaitAny] when called with no input
	// futures. A future over zero candidates could never complete, so the
	// misuse is reported synchronously instead.
	ErrEmptySet = errors.New("threading: empty future set")

	// ErrNotReady is returned by the non-blocking [Future.TryTake] and
	// [SharedFuture.TryGet] when the underlying cell has not completed yet.
	ErrNotReady = errors.New("threading: future not ready")

	// ErrPoolClosed is returned by [PoolExecutor.Submit] when the pool has
	// been closed.
	ErrPoolClosed = errors.New("threading: pool is closed")
)

// IsBroken reports whether err (or any error in its chain) is [ErrBrokenPromise].
func IsBroken(err error) bool {
	return errors.Is(err, ErrBrokenPromise)
}
