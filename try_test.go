package monads

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"pgregory.net/rapid"
)

func TestTryNow(t *testing.T) {
	t.Run("captures success value", func(t *testing.T) {
		result := FlatMapTry(
			TryNow(func() (string, error) { return "42", nil }),
			func(s string) Try[int] {
				return TryNow(func() (int, error) { return strconv.Atoi(s) })
			})
		v, err := result.OrFail()
		if err != nil || v != 42 {
			t.Errorf("expected 42, got %d (%v)", v, err)
		}
	})

	t.Run("captures failure", func(t *testing.T) {
		boom := errors.New("boom")
		attempt := TryNow(func() (int, error) { return 0, boom })
		if attempt.IsSuccess() {
			t.Error("expected failure")
		}
		if _, err := attempt.OrFail(); !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	})

	t.Run("Success equals eager try of same value", func(t *testing.T) {
		if Success("42") != TryNow(func() (string, error) { return "42", nil }) {
			t.Error("expected equal resolved tries")
		}
	})

	t.Run("OrUse falls back on failure", func(t *testing.T) {
		attempt := Failure[string](errors.New("boom"))
		if attempt.OrUse("FAILED") != "FAILED" {
			t.Error("expected fallback value")
		}
	})

	t.Run("OrThrow maps the captured error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Failure[int](boom).OrThrow(func(e error) error {
			return errors.New("mapped: " + e.Error())
		})
		if err == nil || err.Error() != "mapped: boom" {
			t.Errorf("unexpected mapped error %v", err)
		}
	})
}

func TestTryFlatMap(t *testing.T) {
	t.Run("Success invokes bind directly", func(t *testing.T) {
		m := Success(21).FlatMap(func(v int) Monad[int] { return Success(v * 2) })
		attempt, ok := m.(Try[int])
		if !ok || !attempt.IsSuccess() {
			t.Fatalf("expected successful Try, got %v", m)
		}
		if v, _ := attempt.OrFail(); v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	})

	t.Run("Failure short-circuits without invoking bind", func(t *testing.T) {
		boom := errors.New("boom")
		m := Failure[int](boom).FlatMap(func(v int) Monad[int] {
			t.Error("bind must not run on Failure")
			return Success(v)
		})
		if _, err := m.OrFail(); !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	})

	t.Run("bind failure is captured by lazy chain", func(t *testing.T) {
		boom := errors.New("boom")
		chained := FlatMapTry(
			TryLazy(func() (int, error) { return 1, nil }),
			func(int) Try[int] { return Failure[int](boom) })
		if _, err := chained.OrFail(); !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	})
}

func TestTryFilter(t *testing.T) {
	if !TryNow(func() (int, error) { return 42, nil }).Filter(func(i int) bool { return i == 42 }).IsSuccess() {
		t.Error("expected success for matching value")
	}
	filtered := TryNow(func() (int, error) { return 42, nil }).Filter(func(i int) bool { return i < 42 })
	if filtered.IsSuccess() {
		t.Error("expected failure for non-matching value")
	}
	if _, err := filtered.OrFail(); err == nil || !strings.Contains(err.Error(), "criteria not met") {
		t.Errorf("expected descriptive error, got %v", err)
	}
}

func TestTryLazyEvaluation(t *testing.T) {
	t.Run("supplier is not invoked before consumption", func(t *testing.T) {
		evaluated := false
		lazy := TryLazy(func() (string, error) {
			evaluated = true
			return "42", nil
		})
		if evaluated {
			t.Error("supplier ran during construction")
		}
		if lazy.IsResolved() {
			t.Error("expected unresolved lazy try")
		}
		if lazy.OrUse("") != "42" {
			t.Error("expected resolved value")
		}
		if !evaluated || !lazy.IsResolved() {
			t.Error("expected resolution after consuming access")
		}
	})

	t.Run("mapping keeps the try unresolved", func(t *testing.T) {
		evaluated := false
		mapped := MapTry(TryLazy(func() (string, error) {
			evaluated = true
			return "42", nil
		}), func(s string) int {
			n, _ := strconv.Atoi(s)
			return n
		})
		if evaluated || mapped.IsResolved() {
			t.Error("mapping must not resolve a lazy try")
		}
		if v, err := mapped.OrFail(); err != nil || v != 42 {
			t.Errorf("expected 42, got %d (%v)", v, err)
		}
	})

	t.Run("supplier runs at most once", func(t *testing.T) {
		calls := 0
		lazy := TryLazy(func() (int, error) {
			calls++
			return calls, nil
		})
		lazy.OrUse(0)
		lazy.OrUse(0)
		if !lazy.IsSuccess() {
			t.Error("expected success")
		}
		if v, _ := lazy.OrFail(); v != 1 {
			t.Errorf("expected memoized first result, got %d", v)
		}
		if calls != 1 {
			t.Errorf("expected a single evaluation, got %d", calls)
		}
	})

	t.Run("concurrent forcing evaluates once", func(t *testing.T) {
		calls := 0
		lazy := TryLazy(func() (int, error) {
			calls++
			return 42, nil
		})
		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if lazy.OrUse(0) != 42 {
					t.Error("expected memoized value")
				}
			}()
		}
		wg.Wait()
		if calls != 1 {
			t.Errorf("expected a single evaluation, got %d", calls)
		}
	})

	t.Run("OrElse on lazy defers the handler", func(t *testing.T) {
		boom := errors.New("boom")
		var handled error
		chained := TryLazy(func() (int, error) { return 0, boom }).
			OrElse(func(err error) { handled = err })
		if handled != nil {
			t.Error("handler ran before consumption")
		}
		if chained.OrUse(-1) != -1 {
			t.Error("expected fallback value")
		}
		if !errors.Is(handled, boom) {
			t.Errorf("expected handler invocation with boom, got %v", handled)
		}
	})
}

// Property: however many consuming accesses follow the first one, a lazy
// supplier is evaluated exactly once.
func TestTryLazySingleEvaluationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		accesses := rapid.IntRange(1, 10).Draw(t, "accesses")
		calls := 0
		lazy := TryLazy(func() (int, error) {
			calls++
			return calls, nil
		})
		for range accesses {
			if lazy.OrUse(0) != 1 {
				t.Error("expected memoized first result")
			}
		}
		if calls != 1 {
			t.Errorf("expected 1 evaluation after %d accesses, got %d", accesses, calls)
		}
	})
}

func TestTryRun(t *testing.T) {
	if !TryRun(func() error { return nil }).IsSuccess() {
		t.Error("expected success")
	}
	var handled error
	boom := errors.New("boom")
	TryRun(func() error { return boom }).OrElse(func(err error) { handled = err })
	if !errors.Is(handled, boom) {
		t.Errorf("expected boom, got %v", handled)
	}
}

func TestTryThen(t *testing.T) {
	seen := 0
	Success(42).Then(func(v int) { seen = v })
	if seen != 42 {
		t.Errorf("expected consumer invocation, got %d", seen)
	}
	Failure[int](errors.New("boom")).Then(func(int) {
		t.Error("consumer must not run on Failure")
	})
}

func TestTryCombinators(t *testing.T) {
	t.Run("AllTries collects all successful values", func(t *testing.T) {
		all := AllTries([]Try[int]{Success(1), Success(2), Success(3)})
		values, err := all.OrFail()
		if err != nil || !slices.Equal(values, []int{1, 2, 3}) {
			t.Errorf("expected [1 2 3], got %v (%v)", values, err)
		}
	})

	t.Run("AllTries short-circuits on the first failure", func(t *testing.T) {
		boom := errors.New("boom")
		all := AllTries([]Try[int]{Success(1), Failure[int](boom), Success(3)})
		if _, err := all.OrFail(); !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	})

	t.Run("SuccessfulTries drops failed elements", func(t *testing.T) {
		successful := SuccessfulTries(slices.Values([]Try[int]{
			Success(1), Failure[int](errors.New("boom")), Success(3),
		}))
		seq, err := successful.OrFail()
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if values := slices.Collect(seq); !slices.Equal(values, []int{1, 3}) {
			t.Errorf("expected [1 3], got %v", values)
		}
	})
}

func TestTryString(t *testing.T) {
	if s := Success(42).String(); s != "Success[42]" {
		t.Errorf("unexpected string %q", s)
	}
	if s := Failure[int](errors.New("boom")).String(); s != "Failure[boom]" {
		t.Errorf("unexpected string %q", s)
	}
	lazy := TryLazy(func() (int, error) { return 42, nil })
	if s := lazy.String(); s != "Lazy[unresolved]" {
		t.Errorf("unexpected string %q", s)
	}
	lazy.OrUse(0)
	if s := lazy.String(); s != "Success[42]" {
		t.Errorf("unexpected string %q", s)
	}
}
