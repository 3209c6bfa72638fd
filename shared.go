package threading

// SharedFuture is the multi-consumer read-handle to a single-assignment
// cell. Unlike [Future] it is freely shareable: any number of goroutines
// may hold the same *SharedFuture and call [SharedFuture.Get] any number
// of times. Create one via [Future.Shared].
//
// Get is share-on-read: every call returns the same stored value, the cell
// never clears its slot. Callers that mutate the value must copy it first;
// the cell does not clone on their behalf.
type SharedFuture[T any] struct {
	c *cell[T]
}

// Get blocks until the cell completes, then returns the stored value or
// the error the producer failed with. It never consumes: repeated calls
// from any number of goroutines return the same outcome.
func (sf *SharedFuture[T]) Get() (T, error) {
	<-sf.c.done
	return sf.c.val, sf.c.err
}

// TryGet polls the cell without blocking, returning [ErrNotReady] before
// completion.
func (sf *SharedFuture[T]) TryGet() (T, error) {
	select {
	case <-sf.c.done:
		return sf.c.val, sf.c.err
	default:
		var zero T
		return zero, ErrNotReady
	}
}

// Done returns a channel that is closed when the cell completes.
func (sf *SharedFuture[T]) Done() <-chan struct{} {
	return sf.c.done
}
