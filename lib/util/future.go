package util

import (
	"context"
)

// Future is the result of an asynchronous operation. It is resolved exactly once;
// any number of goroutines may wait for it.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// NewFuture creates an unresolved future and the function that resolves it.
// Calling resolve more than once panics.
func NewFuture[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{done: make(chan struct{})}
	return f, func(value T, err error) {
		f.value = value
		f.err = err
		close(f.done)
	}
}

// Resolved returns a future that is already resolved.
func Resolved[T any](value T, err error) *Future[T] {
	f, resolve := NewFuture[T]()
	resolve(value, err)
	return f
}

// Go runs fn in a new goroutine and returns a future for its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f, resolve := NewFuture[T]()
	go func() {
		resolve(fn())
	}()
	return f
}

// Done returns a channel that is closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future is resolved or ctx is done.
// Cancelling ctx only stops the wait, not the operation behind the future.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result blocks until the future is resolved.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.value, f.err
}
