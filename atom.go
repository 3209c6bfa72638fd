package threading

import "sync/atomic"

// Atom is an atomically swappable value cell: readers never block writers
// and vice versa. Load returns a copy of the most recently stored value,
// so readers keep a consistent snapshot while writers move on.
//
// Atom complements the single-assignment cell: a [Promise] hands over one
// value exactly once, an Atom publishes a value that is replaced over time.
type Atom[T any] struct {
	p atomic.Pointer[T]
}

// NewAtom creates an atom holding v.
func NewAtom[T any](v T) *Atom[T] {
	a := &Atom[T]{}
	a.p.Store(&v)
	return a
}

// Load returns a copy of the current value.
func (a *Atom[T]) Load() T {
	return *a.p.Load()
}

// Store replaces the current value with v.
func (a *Atom[T]) Store(v T) {
	a.p.Store(&v)
}

// Swap replaces the current value with v and returns the previous value.
func (a *Atom[T]) Swap(v T) T {
	return *a.p.Swap(&v)
}

// Update applies fn to the current value and installs the result,
// retrying until no concurrent Store intervenes. fn may run more than
// once and must be pure. Returns the installed value.
func (a *Atom[T]) Update(fn func(T) T) T {
	for {
		old := a.p.Load()
		next := fn(*old)
		if a.p.CompareAndSwap(old, &next) {
			return next
		}
	}
}
