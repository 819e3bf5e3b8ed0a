package monads

import (
	"errors"
	"fmt"
	"iter"
)

// ErrNoValue is the error reported by the consuming accessors of an absent
// Option.
var ErrNoValue = errors.New("no value")

// Option represents an optional value that may or may not be present.
// Absence is modeled structurally by the zero Option instead of a nil
// sentinel, so a contained value can itself be any value of T (including a
// nil pointer). Two options are equal iff both are absent or both wrap
// equal values.
type Option[T any] struct {
	value   T
	present bool
}

// Some creates an Option containing a value.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, present: true}
}

// None creates an empty Option.
func None[T any]() Option[T] {
	return Option[T]{present: false}
}

// OptionOf creates an Option from a pointer: None for nil, otherwise Some
// of the pointed-to value.
func OptionOf[T any](ptr *T) Option[T] {
	if ptr == nil {
		return None[T]()
	}
	return Some(*ptr)
}

// RequiredOption is like OptionOf but panics on a nil pointer.
func RequiredOption[T any](ptr *T) Option[T] {
	if ptr == nil {
		panic("called RequiredOption with nil pointer")
	}
	return Some(*ptr)
}

// AllOptions converts a slice of options into an option of all contained
// values. The result is None if any element is absent.
func AllOptions[T any](options []Option[T]) Option[[]T] {
	values := make([]T, 0, len(options))
	for _, o := range options {
		if !o.present {
			return None[[]T]()
		}
		values = append(values, o.value)
	}
	return Some(values)
}

// ExistingOptions converts a sequence of options into an option of the
// sequence of present values. The result always exists; absent elements are
// filtered out lazily, so the input sequence may be unbounded.
func ExistingOptions[T any](options iter.Seq[Option[T]]) Option[iter.Seq[T]] {
	return Some(iter.Seq[T](func(yield func(T) bool) {
		for o := range options {
			if o.present && !yield(o.value) {
				return
			}
		}
	}))
}

// IsSome returns true if the Option contains a value.
func (o Option[T]) IsSome() bool {
	return o.present
}

// IsNone returns true if the Option is empty.
func (o Option[T]) IsNone() bool {
	return !o.present
}

// Unwrap returns the contained value or panics if empty.
func (o Option[T]) Unwrap() T {
	if !o.present {
		panic("called Unwrap on None")
	}
	return o.value
}

// FlatMap applies a function that returns an Option (or any monad of the
// element type) to the contained value. An empty Option short-circuits
// without invoking the function, which together with the structural None
// representation keeps all three monad laws intact.
func (o Option[T]) FlatMap(bind func(T) Monad[T]) Monad[T] {
	if !o.present {
		return o
	}
	return bind(o.value)
}

// Map applies a function to the contained value if present. It is defined
// through FlatMap and Some so that law compliance stays centralized in the
// bind operation.
func (o Option[T]) Map(fn func(T) T) Functor[T] {
	return o.FlatMap(func(t T) Monad[T] { return Some(fn(t)) })
}

// Then consumes the contained value if present and returns the Option
// unchanged.
func (o Option[T]) Then(consume func(T)) Functor[T] {
	if o.present {
		consume(o.value)
	}
	return o
}

// OrElse invokes the handler with ErrNoValue if the Option is empty and
// returns the Option for further chaining.
func (o Option[T]) OrElse(handle func(error)) Functor[T] {
	if !o.present {
		handle(ErrNoValue)
	}
	return o
}

// OrFail returns the contained value, or ErrNoValue if the Option is empty.
func (o Option[T]) OrFail() (T, error) {
	if !o.present {
		var zero T
		return zero, ErrNoValue
	}
	return o.value, nil
}

// OrThrow returns the contained value, or a mapped ErrNoValue if empty.
func (o Option[T]) OrThrow(wrap func(error) error) (T, error) {
	if !o.present {
		var zero T
		return zero, wrap(ErrNoValue)
	}
	return o.value, nil
}

// OrGet returns the contained value or the result of the supplier.
func (o Option[T]) OrGet(supply func() T) T {
	if o.present {
		return o.value
	}
	return supply()
}

// OrUse returns the contained value or a default.
func (o Option[T]) OrUse(fallback T) T {
	return o.OrGet(func() T { return fallback })
}

// Filter returns the Option itself if it is present and the predicate
// holds, None otherwise.
func (o Option[T]) Filter(predicate func(T) bool) Option[T] {
	if o.present && predicate(o.value) {
		return o
	}
	return None[T]()
}

// Match executes one of two functions based on the Option state.
func (o Option[T]) Match(onSome func(T), onNone func()) {
	if o.present {
		onSome(o.value)
	} else {
		onNone()
	}
}

// ToSlice converts the Option to a slice with zero or one element.
func (o Option[T]) ToSlice() []T {
	if o.present {
		return []T{o.value}
	}
	return []T{}
}

// ToPtr converts the Option to a pointer, nil for None.
func (o Option[T]) ToPtr() *T {
	if o.present {
		return &o.value
	}
	return nil
}

// String returns "Some(v)" or "None".
func (o Option[T]) String() string {
	if o.present {
		return fmt.Sprintf("Some(%v)", o.value)
	}
	return "None"
}

// MapOption applies a transformation function to an Option.
func MapOption[T, U any](o Option[T], fn func(T) U) Option[U] {
	return FlatMapOption(o, func(t T) Option[U] { return Some(fn(t)) })
}

// FlatMapOption applies a function that returns an Option.
func FlatMapOption[T, U any](o Option[T], bind func(T) Option[U]) Option[U] {
	if !o.present {
		return None[U]()
	}
	return bind(o.value)
}

// MatchOption executes one of two functions and returns the result.
func MatchOption[T, U any](o Option[T], onSome func(T) U, onNone func() U) U {
	if o.present {
		return onSome(o.value)
	}
	return onNone()
}

// AndOption combines two options with a binary join function.
func AndOption[T, V, R any](o Option[T], other Option[V], join func(T, V) R) Option[R] {
	return FlatMapOption(o, func(t T) Option[R] {
		return MapOption(other, func(v V) R { return join(t, v) })
	})
}
