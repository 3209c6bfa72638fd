package threading

// Then consumes f and returns a future that resolves with fn applied to
// f's value. fn runs on whichever goroutine completes f, after f's earlier
// continuations; if f is already completed, fn runs inline on the caller.
// A failed f propagates its error to the derived future without running fn.
//
// Then is a package-level function because Go methods cannot introduce
// type parameters.
func Then[T, U any](f *Future[T], fn func(T) U) *Future[U] {
	return ThenErr(f, func(v T) (U, error) {
		return fn(v), nil
	})
}

// ThenErr is [Then] for continuations that can fail. A non-nil error from
// fn becomes the derived future's error.
func ThenErr[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	f.consume()
	p, out := NewPair[U]()
	f.c.subscribe(func(v T, err error) {
		if err != nil {
			_ = p.fail(err)
			return
		}
		p.Do(func() (U, error) { return fn(v) })
	})
	return out
}

// Flatten consumes a future-of-future and returns a future that resolves
// with the inner future's outcome. Both layers are consumed.
func Flatten[T any](f *Future[*Future[T]]) *Future[T] {
	f.consume()
	p, out := NewPair[T]()
	f.c.subscribe(func(inner *Future[T], err error) {
		if err != nil {
			_ = p.fail(err)
			return
		}
		inner.consume()
		inner.c.subscribe(func(v T, err error) {
			_ = p.c.complete(v, err)
		})
	})
	return out
}
