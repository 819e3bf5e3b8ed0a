package monads

import "fmt"

// Call represents a deferred, repeatable computation that will either
// supply a value or fail with an error. Unlike Try, a Call never memoizes:
// the wrapped supplier is evaluated anew on every consuming access (OrUse,
// OrFail, OrThrow, Execute, ...). Mapping or flat-mapping a Call only
// builds a new computation and never runs the existing one.
//
// Like unresolved lazy tries, mapped call chains wrap freshly constructed
// closures, so equality comparisons between unevaluated calls will almost
// always be false and should be avoided.
type Call[T any] struct {
	supply  func() (T, error)
	onError func(error)
}

// CallOf wraps a supplier without executing it. This is the unit function
// of the Call family.
func CallOf[T any](supply func() (T, error)) Call[T] {
	return Call[T]{supply: supply}
}

// CallError returns a Call that always fails with the given error.
func CallError[T any](err error) Call[T] {
	return CallOf(func() (T, error) {
		var zero T
		return zero, err
	})
}

// AllCalls converts a slice of calls into a single Call supplying all
// values. The aggregate is itself repeatable: every consuming access
// re-runs every member computation. A member failure aborts the run.
func AllCalls[T any](calls []Call[T]) Call[[]T] {
	supplies := make([]func() (T, error), len(calls))
	for i, c := range calls {
		supplies[i] = c.supply
	}
	return CallOf(func() ([]T, error) {
		values := make([]T, 0, len(supplies))
		for _, supply := range supplies {
			v, err := supply()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	})
}

// consume snapshots the current computation into an eager Try, routing a
// failure through the attached handler chain.
func (c Call[T]) consume() Try[T] {
	t := TryNow(c.supply)
	if c.onError != nil {
		return t.OrElse(c.onError).(Try[T])
	}
	return t
}

func (c Call[T]) withHandler(handle func(error)) Call[T] {
	combined := handle
	if prev := c.onError; prev != nil {
		combined = func(err error) {
			prev(err)
			handle(err)
		}
	}
	return Call[T]{supply: c.supply, onError: combined}
}

// FlatMap returns a new Call whose computation evaluates the current one,
// applies the bind function and unwraps the produced monad. Nothing is
// executed until a consuming access.
func (c Call[T]) FlatMap(bind func(T) Monad[T]) Monad[T] {
	return Call[T]{
		supply: func() (T, error) {
			v, err := c.supply()
			if err != nil {
				var zero T
				return zero, err
			}
			return bind(v).OrFail()
		},
		onError: c.onError,
	}
}

// Map builds a new Call applying a function to the supplied value. Defined
// through FlatMap and CallOf to keep law compliance centralized.
func (c Call[T]) Map(fn func(T) T) Functor[T] {
	return c.FlatMap(func(v T) Monad[T] {
		return CallOf(func() (T, error) { return fn(v), nil })
	})
}

// Then builds a new Call that additionally consumes the supplied value as
// a side effect on every evaluation.
func (c Call[T]) Then(consume func(T)) Functor[T] {
	return c.FlatMap(func(v T) Monad[T] {
		consume(v)
		return Success(v)
	})
}

// OrElse attaches an error handler. Every subsequent consuming access
// routes failures through the accumulated handler chain; if a handler is
// already attached the new one is appended, not substituted.
func (c Call[T]) OrElse(handle func(error)) Functor[T] {
	return c.withHandler(handle)
}

// OrFail evaluates the computation and returns its value or error. An
// attached handler chain observes the error before it is returned.
func (c Call[T]) OrFail() (T, error) {
	return c.consume().OrFail()
}

// OrThrow evaluates the computation, mapping an error before returning it.
func (c Call[T]) OrThrow(wrap func(error) error) (T, error) {
	return c.consume().OrThrow(wrap)
}

// OrGet evaluates the computation and returns its value or the result of
// the supplier.
func (c Call[T]) OrGet(supply func() T) T {
	return c.consume().OrGet(supply)
}

// OrUse evaluates the computation and returns its value or a default.
func (c Call[T]) OrUse(fallback T) T {
	return c.consume().OrUse(fallback)
}

// Execute runs the computation once. With a handler chain attached only
// the handlers observe a failure and the return value is nil; otherwise
// the failure is returned.
func (c Call[T]) Execute() error {
	if c.onError != nil {
		var zero T
		c.OrUse(zero)
		return nil
	}
	_, err := c.consume().OrFail()
	return err
}

// ExecuteWith runs the computation once and forwards a failure to the
// given handler, appended to any already attached chain.
func (c Call[T]) ExecuteWith(handle func(error)) {
	var zero T
	c.withHandler(handle).OrUse(zero)
}

// ToTry snapshots the current computation into an eagerly evaluated Try.
// The attached handler chain observes a failure during the snapshot.
func (c Call[T]) ToTry() Try[T] {
	return c.consume()
}

// ToLazy snapshots the current computation into a lazy, single-evaluation
// Try. An attached handler chain carries over to the resolution.
func (c Call[T]) ToLazy() Try[T] {
	t := TryLazy(c.supply)
	if c.onError != nil {
		return t.OrElse(c.onError).(Try[T])
	}
	return t
}

// String describes the wrapped computation by identity; the value itself
// is unknown until evaluated.
func (c Call[T]) String() string {
	return fmt.Sprintf("Call[%p]", c.supply)
}

// MapCall applies a transformation function to a Call without running it.
func MapCall[T, U any](c Call[T], fn func(T) U) Call[U] {
	return FlatMapCall(c, func(v T) Call[U] {
		return CallOf(func() (U, error) { return fn(v), nil })
	})
}

// FlatMapCall applies a function that returns a Call, building a new
// deferred computation. The receiver's handler chain carries over.
func FlatMapCall[T, U any](c Call[T], bind func(T) Call[U]) Call[U] {
	return Call[U]{
		supply: func() (U, error) {
			v, err := c.supply()
			if err != nil {
				var zero U
				return zero, err
			}
			return bind(v).OrFail()
		},
		onError: c.onError,
	}
}

// AndCall combines two calls with a binary join function.
func AndCall[T, V, R any](c Call[T], other Call[V], join func(T, V) R) Call[R] {
	return FlatMapCall(c, func(v T) Call[R] {
		return MapCall(other, func(w V) R { return join(v, w) })
	})
}
