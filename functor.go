// Package monads provides value-wrapping monadic types for Go: Option for
// values that may be absent, Try for attempted computations with eager or
// lazy-memoized evaluation, Call for repeatable computations, and Promise
// for values produced by background work. All types share the Functor and
// Monad contracts defined here and satisfy the monad laws on resolved
// values.
package monads

// Functor wraps a value of type T and allows mapping over it. The Or...
// methods consume the functor at the end of a mapping chain: they either
// produce the wrapped value or handle the case where no valid value could
// be determined. Since Go methods cannot introduce new type parameters,
// Map is restricted to the element type; cross-type mapping is provided by
// the package-level functions of each concrete family (MapOption, MapTry,
// MapCall, MapPromise and their FlatMap counterparts).
type Functor[T any] interface {
	// Map transforms the wrapped value if one is available and returns the
	// resulting functor. An unavailable state propagates untouched.
	Map(fn func(T) T) Functor[T]

	// Then consumes the wrapped value as a side effect and returns the
	// functor unchanged in value.
	Then(consume func(T)) Functor[T]

	// OrElse invokes the handler only when no valid value is available and
	// returns a functor so that chains can continue.
	OrElse(handle func(error)) Functor[T]

	// OrFail returns the wrapped value or the error describing why none is
	// available.
	OrFail() (T, error)

	// OrThrow is like OrFail but maps the error before returning it.
	OrThrow(wrap func(error) error) (T, error)

	// OrGet returns the wrapped value or the result of the supplier.
	OrGet(supply func() T) T

	// OrUse returns the wrapped value or the given default.
	OrUse(fallback T) T
}

// Monad extends Functor with the flattening bind operation. FlatMap hands
// the produced monad back directly instead of re-wrapping it, so the result
// is never a monad nested inside another. The bind function returns the
// Monad interface so that deferred implementations (lazy Try, Call,
// Promise) can unwrap the produced instance generically through OrFail.
type Monad[T any] interface {
	Functor[T]

	// FlatMap maps the wrapped value into a new monad of the same family.
	FlatMap(bind func(T) Monad[T]) Monad[T]
}

// Mappable is a type constraint covering the concrete monad families of
// this package.
type Mappable[T any] interface {
	Option[T] | Try[T] | Call[T] | Promise[T]
}

// And combines two monads with a binary join function by flat-mapping this
// monad and lifting the other, which is why this combinator is also known
// as liftM2. The typed per-family variants (AndOption, AndTry, AndCall,
// AndPromise) only narrow the types; the behavior is this one.
func And[T any](m, other Monad[T], join func(T, T) T) Monad[T] {
	return m.FlatMap(func(t T) Monad[T] {
		return other.Map(func(v T) T { return join(t, v) }).(Monad[T])
	})
}

// Identity returns its argument unchanged.
func Identity[T any](v T) T {
	return v
}

// Compose composes two functions left to right.
func Compose[A, B, C any](f func(A) B, g func(B) C) func(A) C {
	return func(a A) C {
		return g(f(a))
	}
}

// OptionToTry converts an Option into a Try: a Success for a present value
// or a Failure wrapping ErrNoValue for an absent one.
func OptionToTry[T any](o Option[T]) Try[T] {
	if o.IsSome() {
		return Success(o.value)
	}
	return Failure[T](ErrNoValue)
}

// TryToOption converts a Try into an Option, discarding the error of a
// failed try. A lazy Try is resolved by the conversion.
func TryToOption[T any](t Try[T]) Option[T] {
	if v, err := t.OrFail(); err == nil {
		return Some(v)
	}
	return None[T]()
}
