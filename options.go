package threading

import "time"

type config struct {
	executor Executor
	limit    int
	onDone   func(time.Duration, error)
}

// Option configures a [Scope].
type Option func(*config)

func defaultConfig() config {
	return config{
		executor: goExecutor{},
	}
}

// WithExecutor sets the execution substrate the scope submits its tasks
// to. The default spawns one goroutine per task. Panics if e is nil.
func WithExecutor(e Executor) Option {
	if e == nil {
		panic("threading: WithExecutor requires non-nil executor")
	}
	return func(c *config) {
		c.executor = e
	}
}

// WithLimit sets the maximum number of tasks executing concurrently within
// the scope. Tasks beyond the limit wait for a slot.
//
// A limit of zero (the default) means unlimited concurrency.
// WithLimit panics if n is negative.
func WithLimit(n int) Option {
	if n < 0 {
		panic("threading: limit must be non-negative")
	}
	return func(c *config) {
		c.limit = n
	}
}

// WithOnDone registers a hook invoked when each task finishes. The hook
// receives the task's wall-clock duration and its error (nil on success;
// a [*PanicError] if the task panicked). It runs on the task's goroutine
// after the task function returns.
func WithOnDone(fn func(time.Duration, error)) Option {
	return func(c *config) {
		c.onDone = fn
	}
}
