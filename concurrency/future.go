// Package concurrency provides the asynchronous execution primitive the
// monads package builds its Promise type on: a once-settled future whose
// result is produced by a background goroutine or by an external
// completion.
package concurrency

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCancelled is the settlement error of a cancelled future.
var ErrCancelled = errors.New("future cancelled")

// Future represents an asynchronous computation. It settles exactly once,
// with a value or an error; later settlement attempts are ignored. A
// settled future never changes.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// NewCompletable creates an unsettled future to be completed externally
// with Complete, Fail or Cancel.
func NewCompletable[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// NewFuture creates a future from an async operation, run on a background
// goroutine.
func NewFuture[T any](fn func() (T, error)) *Future[T] {
	f := NewCompletable[T]()
	go func() {
		f.settle(fn())
	}()
	return f
}

// NewFutureWithContext creates a future with context support. The context
// is passed through to the operation; cancelling it does not by itself
// settle the future.
func NewFutureWithContext[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := NewCompletable[T]()
	go func() {
		f.settle(fn(ctx))
	}()
	return f
}

// Resolve creates an already-settled future with a value.
func Resolve[T any](value T) *Future[T] {
	f := NewCompletable[T]()
	f.Complete(value)
	return f
}

// Reject creates an already-settled future with an error.
func Reject[T any](err error) *Future[T] {
	f := NewCompletable[T]()
	f.Fail(err)
	return f
}

func (f *Future[T]) settle(value T, err error) bool {
	won := false
	f.once.Do(func() {
		f.value, f.err = value, err
		close(f.done)
		won = true
	})
	return won
}

// Complete settles the future with a value. It reports whether this call
// performed the settlement.
func (f *Future[T]) Complete(value T) bool {
	return f.settle(value, nil)
}

// Fail settles the future with an error. It reports whether this call
// performed the settlement.
func (f *Future[T]) Fail(err error) bool {
	var zero T
	return f.settle(zero, err)
}

// Cancel settles the future with ErrCancelled. It reports whether this
// call caused the cancellation; false means the future had already
// settled. Work already running on behalf of the future is not
// interrupted, its result is discarded.
func (f *Future[T]) Cancel() bool {
	var zero T
	return f.settle(zero, ErrCancelled)
}

// Wait blocks until the future settles.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// WaitContext blocks until the future settles or the context is done.
func (f *Future[T]) WaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// WaitTimeout blocks up to the given duration, returning
// context.DeadlineExceeded if the future has not settled in time. A
// non-positive duration waits without bound.
func (f *Future[T]) WaitTimeout(timeout time.Duration) (T, error) {
	if timeout <= 0 {
		return f.Wait()
	}
	// An already-settled future must win even against an already-expired
	// timer; select alone picks randomly between two ready channels.
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-f.done:
		return f.value, f.err
	case <-timer.C:
		var zero T
		return zero, context.DeadlineExceeded
	}
}

// IsDone returns true if the future has settled.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Peek returns the settlement without blocking; done is false while the
// future is still active.
func (f *Future[T]) Peek() (value T, err error, done bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		return
	}
}

// Map transforms the future value on a continuation goroutine; the call
// itself never blocks.
func Map[T, U any](f *Future[T], fn func(T) U) *Future[U] {
	return NewFuture(func() (U, error) {
		v, err := f.Wait()
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v), nil
	})
}

// FlatMap chains futures: the result settles only after both the receiver
// and the future produced by the bind function have settled.
func FlatMap[T, U any](f *Future[T], bind func(T) *Future[U]) *Future[U] {
	return NewFuture(func() (U, error) {
		v, err := f.Wait()
		if err != nil {
			var zero U
			return zero, err
		}
		return bind(v).Wait()
	})
}

// All gathers the results of all futures in input order. The returned
// future settles once every input has settled, failing with the first
// error encountered in input order.
func All[T any](futures ...*Future[T]) *Future[[]T] {
	return NewFuture(func() ([]T, error) {
		values := make([]T, len(futures))
		var wg sync.WaitGroup
		errs := make([]error, len(futures))
		wg.Add(len(futures))
		for i, f := range futures {
			go func(i int, f *Future[T]) {
				defer wg.Done()
				values[i], errs[i] = f.Wait()
			}(i, f)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
		return values, nil
	})
}

// Race settles with the first future to settle, value or error alike. The
// remaining futures keep running; their results are discarded.
func Race[T any](futures ...*Future[T]) *Future[T] {
	result := NewCompletable[T]()
	for _, f := range futures {
		go func(f *Future[T]) {
			result.settle(f.Wait())
		}(f)
	}
	return result
}
