package threading

import "sync"

// Event is a manual-reset binary signal carrying no value. [Event.Signal]
// releases all current and future waiters until [Event.Reset] installs a
// fresh gate.
//
// Reset racing with concurrent Wait/Signal is last-writer-wins: a waiter
// released by an earlier Signal stays released, and a Wait that observed
// the pre-Reset gate returns when that gate is (or already was) closed.
// Callers needing stricter ordering must serialize their own access.
type Event struct {
	mu   sync.Mutex
	set  bool
	gate chan struct{}
}

// NewEvent returns an event in the unsignaled state.
func NewEvent() *Event {
	return &Event{gate: make(chan struct{})}
}

// Signal sets the event, releasing every goroutine blocked in [Event.Wait]
// and letting subsequent Wait calls return immediately until the next
// [Event.Reset]. Idempotent.
func (e *Event) Signal() {
	e.mu.Lock()
	if !e.set {
		e.set = true
		close(e.gate)
	}
	e.mu.Unlock()
}

// Reset clears the event. Goroutines already released by a prior Signal
// are unaffected. Idempotent.
func (e *Event) Reset() {
	e.mu.Lock()
	if e.set {
		e.set = false
		e.gate = make(chan struct{})
	}
	e.mu.Unlock()
}

// Wait blocks the calling goroutine while the event is unsignaled.
func (e *Event) Wait() {
	<-e.WaitChan()
}

// WaitChan returns a channel that is closed once the event is signaled.
// The channel reflects the event's state at the time of the call: after a
// Reset, earlier channels stay closed and WaitChan returns the new gate.
func (e *Event) WaitChan() <-chan struct{} {
	e.mu.Lock()
	ch := e.gate
	e.mu.Unlock()
	return ch
}

// IsSet reports whether the event is currently signaled.
// The value may be stale in concurrent contexts.
func (e *Event) IsSet() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.set
}
