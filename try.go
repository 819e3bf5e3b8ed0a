package monads

import (
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
)

// Try represents the attempted execution of a value-supplying computation
// that may fail with an error. An instance is in one of three states:
// Success, Failure, or Lazy. Success and Failure are terminal and
// immutable. A lazy Try holds the supplier and a memo cell that is
// populated at most once, the first time a consuming operation needs the
// result; afterwards it behaves observably like the Success or Failure it
// resolved to. The supplier of a Try, even of a lazy one, never runs more
// than once. For a computation that should re-run on every consuming
// access use Call instead.
//
// Unresolved lazy tries carry freshly constructed closures that cannot be
// compared structurally, so equality comparisons between unresolved
// instances are unreliable and should be avoided; resolved tries obey the
// monad laws.
type Try[T any] struct {
	value T
	err   error
	cell  *lazyCell[T]
}

// lazyCell is the once-written memo slot of a lazy Try. The first caller
// of resolve runs the supplier; concurrent callers observe the written
// result and never re-execute it.
type lazyCell[T any] struct {
	once   sync.Once
	supply func() (T, error)
	value  T
	err    error
	done   uint32
}

func (c *lazyCell[T]) resolve() (T, error) {
	c.once.Do(func() {
		c.value, c.err = c.supply()
		c.supply = nil
		atomic.StoreUint32(&c.done, 1)
	})
	return c.value, c.err
}

func (c *lazyCell[T]) resolved() bool {
	return atomic.LoadUint32(&c.done) == 1
}

// TryNow executes the supplier immediately and captures its outcome as a
// Success or Failure.
func TryNow[T any](supply func() (T, error)) Try[T] {
	value, err := supply()
	if err != nil {
		return Failure[T](err)
	}
	return Success(value)
}

// TryLazy defers the supplier until the first consuming access. Mapping or
// flat-mapping a lazy Try creates another unresolved lazy instance; the
// supplier runs at most once no matter how often the result is consumed.
func TryLazy[T any](supply func() (T, error)) Try[T] {
	return Try[T]{cell: &lazyCell[T]{supply: supply}}
}

// Success creates a Try representing a successful computation. This is the
// unit function of the Try family.
func Success[T any](value T) Try[T] {
	return Try[T]{value: value}
}

// Failure creates a Try representing a failed computation. The error must
// be non-nil.
func Failure[T any](err error) Try[T] {
	return Try[T]{err: err}
}

// Unit is the value type of tries produced from plain runnables.
type Unit struct{}

// TryRun executes a value-less computation immediately, as a compact
// alternative to inline error handling:
//
//	TryRun(connect).OrElse(logError)
func TryRun(run func() error) Try[Unit] {
	return TryNow(func() (Unit, error) {
		return Unit{}, run()
	})
}

// AllTries converts a slice of tries into a try of all contained values.
// The first Failure found short-circuits the conversion; lazy members are
// resolved by it.
func AllTries[T any](tries []Try[T]) Try[[]T] {
	values := make([]T, 0, len(tries))
	for _, t := range tries {
		v, err := t.resolve()
		if err != nil {
			return Failure[[]T](err)
		}
		values = append(values, v)
	}
	return Success(values)
}

// SuccessfulTries converts a sequence of tries into a try of the sequence
// of successful values. Failed elements are dropped lazily, so the input
// sequence may be unbounded.
func SuccessfulTries[T any](tries iter.Seq[Try[T]]) Try[iter.Seq[T]] {
	return Success[iter.Seq[T]](func(yield func(T) bool) {
		for t := range tries {
			if v, err := t.resolve(); err == nil && !yield(v) {
				return
			}
		}
	})
}

func (t Try[T]) resolve() (T, error) {
	if t.cell != nil {
		return t.cell.resolve()
	}
	return t.value, t.err
}

// IsSuccess reports whether the computation succeeded. Calling it on a
// lazy Try resolves it.
func (t Try[T]) IsSuccess() bool {
	_, err := t.resolve()
	return err == nil
}

// IsResolved reports whether the outcome is already determined. Success
// and Failure instances are always resolved; a lazy Try is resolved after
// its first consuming access.
func (t Try[T]) IsResolved() bool {
	return t.cell == nil || t.cell.resolved()
}

// FlatMap maps the wrapped value into a new monad of the element type. On
// Success the bind function is invoked directly and its result returned
// without re-wrapping. On Failure the bind function is not invoked and the
// failure propagates. On an unresolved lazy Try a new lazy instance is
// returned whose supplier resolves the receiver, applies the bind function
// and unwraps its result, capturing any error instead of propagating it.
func (t Try[T]) FlatMap(bind func(T) Monad[T]) Monad[T] {
	if t.cell != nil {
		cell := t.cell
		return TryLazy(func() (T, error) {
			v, err := cell.resolve()
			if err != nil {
				var zero T
				return zero, err
			}
			return bind(v).OrFail()
		})
	}
	if t.err != nil {
		return t
	}
	return bind(t.value)
}

// Map applies a function to the value of a successful computation. Defined
// through FlatMap and Success to keep law compliance centralized.
func (t Try[T]) Map(fn func(T) T) Functor[T] {
	return t.FlatMap(func(v T) Monad[T] { return Success(fn(v)) })
}

// Then consumes the value of a successful computation as a side effect. On
// a lazy Try the consumer is deferred until resolution.
func (t Try[T]) Then(consume func(T)) Functor[T] {
	return t.FlatMap(func(v T) Monad[T] {
		consume(v)
		return Success(v)
	})
}

// OrElse invokes the handler on the failure branch only and returns a Try
// for further chaining. On an unresolved lazy Try the handler invocation
// is deferred until resolution.
func (t Try[T]) OrElse(handle func(error)) Functor[T] {
	if t.cell != nil {
		cell := t.cell
		return TryLazy(func() (T, error) {
			v, err := cell.resolve()
			if err != nil {
				handle(err)
			}
			return v, err
		})
	}
	if t.err != nil {
		handle(t.err)
	}
	return t
}

// OrFail returns the computed value or the captured error, resolving a
// lazy Try.
func (t Try[T]) OrFail() (T, error) {
	return t.resolve()
}

// OrThrow is like OrFail but maps the captured error before returning it.
func (t Try[T]) OrThrow(wrap func(error) error) (T, error) {
	v, err := t.resolve()
	if err != nil {
		return v, wrap(err)
	}
	return v, nil
}

// OrGet returns the computed value or the result of the supplier.
func (t Try[T]) OrGet(supply func() T) T {
	v, err := t.resolve()
	if err != nil {
		return supply()
	}
	return v
}

// OrUse returns the computed value or a default.
func (t Try[T]) OrUse(fallback T) T {
	return t.OrGet(func() T { return fallback })
}

// Filter turns a successful Try whose value does not fulfill the predicate
// into a Failure with a descriptive error.
func (t Try[T]) Filter(predicate func(T) bool) Try[T] {
	return t.FlatMap(func(v T) Monad[T] {
		if predicate(v) {
			return Success(v)
		}
		return Failure[T](fmt.Errorf("criteria not met by %v", v))
	}).(Try[T])
}

// String describes the state: "Success[v]", "Failure[err]" or
// "Lazy[unresolved]".
func (t Try[T]) String() string {
	value, err := t.value, t.err
	if t.cell != nil {
		if !t.cell.resolved() {
			return "Lazy[unresolved]"
		}
		value, err = t.cell.value, t.cell.err
	}
	if err != nil {
		return fmt.Sprintf("Failure[%v]", err)
	}
	return fmt.Sprintf("Success[%v]", value)
}

// MapTry applies a transformation function to a Try. A lazy receiver stays
// lazy.
func MapTry[T, U any](t Try[T], fn func(T) U) Try[U] {
	return FlatMapTry(t, func(v T) Try[U] { return Success(fn(v)) })
}

// FlatMapTry applies a function that returns a Try. A lazy receiver yields
// an unresolved lazy result.
func FlatMapTry[T, U any](t Try[T], bind func(T) Try[U]) Try[U] {
	if t.cell != nil {
		cell := t.cell
		return TryLazy(func() (U, error) {
			v, err := cell.resolve()
			if err != nil {
				var zero U
				return zero, err
			}
			return bind(v).resolve()
		})
	}
	if t.err != nil {
		return Failure[U](t.err)
	}
	return bind(t.value)
}

// AndTry combines two tries with a binary join function.
func AndTry[T, V, R any](t Try[T], other Try[V], join func(T, V) R) Try[R] {
	return FlatMapTry(t, func(v T) Try[R] {
		return MapTry(other, func(w V) R { return join(v, w) })
	})
}
