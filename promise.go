package monads

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/authcorp/libs/go/monads/concurrency"
)

// PromiseState enumerates the possible states of a Promise. StateActive
// designates a promise still performing asynchronous work; all other
// states are terminal.
type PromiseState int

const (
	StateActive PromiseState = iota
	StateResolved
	StateCancelled
	StateFailed
)

// String returns the state name.
func (s PromiseState) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateResolved:
		return "Resolved"
	case StateCancelled:
		return "Cancelled"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("PromiseState(%d)", int(s))
	}
}

// Promise is a monad for a value that will be provided asynchronously
// after some background computation. It wraps a concurrency.Future and
// adds the monadic chaining layer and state classification on top of it.
// Composing operations only register continuations and never block the
// calling goroutine; blocking happens exclusively in Await and the Or...
// accessors, optionally bounded by WithTimeout.
type Promise[T any] struct {
	future  *concurrency.Future[T]
	timeout time.Duration
}

// PromiseOf schedules the supplier on a background goroutine and returns a
// promise for its outcome.
func PromiseOf[T any](supply func() (T, error)) Promise[T] {
	return PromiseFrom(concurrency.NewFuture(supply))
}

// PromiseFrom adopts an existing future as a promise.
func PromiseFrom[T any](future *concurrency.Future[T]) Promise[T] {
	return Promise[T]{future: future}
}

// Resolved returns a promise already resolved with a value, without
// scheduling any background work. This is the unit function of the
// Promise family.
func Resolved[T any](value T) Promise[T] {
	return PromiseFrom(concurrency.Resolve(value))
}

// Rejected returns a promise already terminated in the Failed state,
// without scheduling any background work.
func Rejected[T any](err error) Promise[T] {
	return PromiseFrom(concurrency.Reject[T](err))
}

// AllPromises converts a slice of promises into a promise of all values,
// ordered by source position regardless of completion order. The result
// resolves once every member has resolved and fails as soon as any member
// fails; already-running siblings still finish but their results are
// discarded. An empty input resolves immediately.
func AllPromises[T any](promises []Promise[T]) Promise[[]T] {
	result := concurrency.NewCompletable[[]T]()
	if len(promises) == 0 {
		result.Complete([]T{})
		return PromiseFrom(result)
	}

	// values may be written from many completion goroutines at once
	var mu sync.Mutex
	values := make([]T, len(promises))
	pending := len(promises)

	for i, p := range promises {
		go func(i int, f *concurrency.Future[T]) {
			v, err := f.Wait()
			if err != nil {
				result.Fail(err)
				return
			}
			mu.Lock()
			values[i] = v
			pending--
			last := pending == 0
			mu.Unlock()
			if last {
				result.Complete(values)
			}
		}(i, p.future)
	}
	return PromiseFrom(result)
}

// AnyPromise returns a promise settling with the first member to resolve
// or fail. It panics on an empty input, synchronously and before any
// scheduling.
func AnyPromise[T any](promises []Promise[T]) Promise[T] {
	if len(promises) == 0 {
		panic("AnyPromise requires at least one promise")
	}
	futures := make([]*concurrency.Future[T], len(promises))
	for i, p := range promises {
		futures[i] = p.future
	}
	return PromiseFrom(concurrency.Race(futures...))
}

// State classifies the current state of the promise from the underlying
// future on every call. The future is the sole source of truth and may
// settle between queries, so StateActive is only a momentary observation.
func (p Promise[T]) State() PromiseState {
	_, err, done := p.future.Peek()
	switch {
	case !done:
		return StateActive
	case err == nil:
		return StateResolved
	case errors.Is(err, concurrency.ErrCancelled):
		return StateCancelled
	default:
		return StateFailed
	}
}

// IsResolved is a shortcut for State() == StateResolved. When it returns
// true the consuming accessors yield the value without blocking.
func (p Promise[T]) IsResolved() bool {
	return p.State() == StateResolved
}

// FlatMap chains the bind function as a continuation of the wrapped
// future. The returned promise settles only after both this promise and
// the monad produced by the bind function have completed. The call itself
// never blocks.
func (p Promise[T]) FlatMap(bind func(T) Monad[T]) Monad[T] {
	return PromiseFrom(concurrency.NewFuture(func() (T, error) {
		v, err := p.future.Wait()
		if err != nil {
			var zero T
			return zero, err
		}
		return bind(v).OrFail()
	}))
}

// Map transforms the promised value on a continuation. Defined through
// FlatMap and Resolved to keep law compliance centralized.
func (p Promise[T]) Map(fn func(T) T) Functor[T] {
	return p.FlatMap(func(v T) Monad[T] { return Resolved(fn(v)) })
}

// Then registers a consumer continuation for the resolved value and
// returns a promise passing the value through unchanged.
func (p Promise[T]) Then(consume func(T)) Functor[T] {
	return p.FlatMap(func(v T) Monad[T] {
		consume(v)
		return Resolved(v)
	})
}

// OrElse registers a continuation invoked only on the failure path; the
// failure still propagates to the returned promise afterwards. A panic
// raised by the handler itself propagates on the continuation goroutine
// and is never swallowed.
func (p Promise[T]) OrElse(handle func(error)) Functor[T] {
	return PromiseFrom(concurrency.NewFuture(func() (T, error) {
		v, err := p.future.Wait()
		if err != nil {
			handle(err)
		}
		return v, err
	}))
}

// Await blocks until the promise is terminal, bounded by a configured
// timeout, and returns the now-settled promise together with the terminal
// error if any. Await is only meaningful at the very end of a pipeline:
// invoked mid-chain it blocks that step only, later steps stay
// asynchronous.
func (p Promise[T]) Await() (Promise[T], error) {
	_, err := p.wait()
	return p, err
}

// WithTimeout returns a promise sharing the same underlying future whose
// blocking accessors give up after the given duration. The underlying
// work is not cancelled, only the wait is bounded.
func (p Promise[T]) WithTimeout(timeout time.Duration) Promise[T] {
	return Promise[T]{future: p.future, timeout: timeout}
}

// Cancel requests cancellation of the underlying future. It returns true
// only if this call caused the cancellation; false means the promise had
// already terminated.
func (p Promise[T]) Cancel() bool {
	return p.future.Cancel()
}

// ToFuture exposes the underlying blocking future-style interface of this
// promise.
func (p Promise[T]) ToFuture() *concurrency.Future[T] {
	return p.future
}

func (p Promise[T]) wait() (T, error) {
	if p.timeout > 0 {
		return p.future.WaitTimeout(p.timeout)
	}
	return p.future.Wait()
}

// OrFail blocks until terminal and returns the resolved value or the
// failure, cancellation or timeout error.
func (p Promise[T]) OrFail() (T, error) {
	return p.wait()
}

// OrThrow blocks until terminal, mapping an error before returning it.
func (p Promise[T]) OrThrow(wrap func(error) error) (T, error) {
	v, err := p.wait()
	if err != nil {
		return v, wrap(err)
	}
	return v, nil
}

// OrGet blocks until terminal and returns the resolved value, falling
// back to the supplier on failure, cancellation or timeout.
func (p Promise[T]) OrGet(supply func() T) T {
	v, err := p.wait()
	if err != nil {
		return supply()
	}
	return v
}

// OrUse blocks until terminal and returns the resolved value or a
// default.
func (p Promise[T]) OrUse(fallback T) T {
	return p.OrGet(func() T { return fallback })
}

// String describes the promise: the resolved value or "unresolved".
func (p Promise[T]) String() string {
	if v, err, done := p.future.Peek(); done && err == nil {
		return fmt.Sprintf("Promise[%v]", v)
	}
	return "Promise[unresolved]"
}

// MapPromise applies a transformation function to a promise on a
// continuation.
func MapPromise[T, U any](p Promise[T], fn func(T) U) Promise[U] {
	return FlatMapPromise(p, func(v T) Promise[U] { return Resolved(fn(v)) })
}

// FlatMapPromise applies a function that returns a promise, chaining it as
// a continuation.
func FlatMapPromise[T, U any](p Promise[T], bind func(T) Promise[U]) Promise[U] {
	return PromiseFrom(concurrency.NewFuture(func() (U, error) {
		v, err := p.future.Wait()
		if err != nil {
			var zero U
			return zero, err
		}
		return bind(v).future.Wait()
	}))
}

// AndPromise combines two promises with a binary join function.
func AndPromise[T, V, R any](p Promise[T], other Promise[V], join func(T, V) R) Promise[R] {
	return FlatMapPromise(p, func(v T) Promise[R] {
		return MapPromise(other, func(w V) R { return join(v, w) })
	})
}
