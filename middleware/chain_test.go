package middleware

import (
	"context"
	"errors"
	"testing"
)

func makeTag(tag string, log *[]string) Middleware {
	return func(API) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				*log = append(*log, tag+":before")
				res, err := next(ctx, action)
				*log = append(*log, tag+":after")
				return res, err
			}
		}
	}
}

func noState() any { return nil }

func TestCompose_Empty_Identity(t *testing.T) {
	id := Compose[int]()
	if got := id(42); got != 42 {
		t.Fatalf("Compose()(42) = %d, want 42", got)
	}
}

func TestCompose_Single_Unchanged(t *testing.T) {
	double := func(v int) int { return v * 2 }
	composed := Compose(double)
	if got := composed(21); got != 42 {
		t.Fatalf("Compose(double)(21) = %d, want 42", got)
	}
}

func TestCompose_RightToLeft(t *testing.T) {
	appendA := func(s string) string { return s + "a" }
	appendB := func(s string) string { return s + "b" }
	appendC := func(s string) string { return s + "c" }

	// Compose(a, b, c)(x) == a(b(c(x))): c runs first.
	got := Compose(appendA, appendB, appendC)("x")
	if got != "xcba" {
		t.Fatalf("Compose(a, b, c)(%q) = %q, want %q", "x", got, "xcba")
	}
}

func TestAssemble_Order(t *testing.T) {
	var log []string
	base := func(_ context.Context, _ any) (any, error) {
		log = append(log, "base")
		return "ok", nil
	}

	d := Assemble(base, noState,
		makeTag("A", &log),
		makeTag("B", &log),
		makeTag("C", &log),
	)

	res, err := d(t.Context(), "action")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != "ok" {
		t.Fatalf("unexpected result: %v", res)
	}

	expected := []string{"A:before", "B:before", "C:before", "base", "C:after", "B:after", "A:after"}
	if len(log) != len(expected) {
		t.Fatalf("log mismatch: got %v, want %v", log, expected)
	}
	for i := range expected {
		if log[i] != expected[i] {
			t.Fatalf("log[%d] = %q, want %q\nfull: %v", i, log[i], expected[i], log)
		}
	}
}

func TestAssemble_Empty_IsBase(t *testing.T) {
	base := func(_ context.Context, action any) (any, error) {
		return action, nil
	}

	d := Assemble(base, noState)
	res, err := d(t.Context(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != "hello" {
		t.Fatalf("expected %q, got %v", "hello", res)
	}
}

func TestAssemble_Single(t *testing.T) {
	var log []string
	base := func(_ context.Context, _ any) (any, error) {
		log = append(log, "base")
		return nil, nil
	}

	d := Assemble(base, noState, makeTag("only", &log))
	if _, err := d(t.Context(), "action"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"only:before", "base", "only:after"}
	if len(log) != len(expected) {
		t.Fatalf("log mismatch: got %v, want %v", log, expected)
	}
}

func TestAssemble_ShortCircuit(t *testing.T) {
	var log []string
	base := func(_ context.Context, _ any) (any, error) {
		log = append(log, "base")
		return nil, nil
	}

	intercept := func(API) func(Dispatch) Dispatch {
		return func(Dispatch) Dispatch {
			return func(_ context.Context, _ any) (any, error) {
				log = append(log, "intercept")
				return "short", nil
			}
		}
	}

	d := Assemble(base, noState,
		makeTag("A", &log),
		intercept,
		makeTag("C", &log),
	)

	res, err := d(t.Context(), "action")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != "short" {
		t.Fatalf("expected %q, got %v", "short", res)
	}

	// Everything below the intercepting middleware is skipped; the
	// outer middleware still unwinds normally.
	expected := []string{"A:before", "intercept", "A:after"}
	if len(log) != len(expected) {
		t.Fatalf("log mismatch: got %v, want %v", log, expected)
	}
	for i := range expected {
		if log[i] != expected[i] {
			t.Fatalf("log[%d] = %q, want %q\nfull: %v", i, log[i], expected[i], log)
		}
	}
}

func TestAssemble_DispatchDuringSetup(t *testing.T) {
	// A middleware that dispatches through the API handle at
	// instantiation time must observe ErrDispatchDuringSetup, at every
	// chain position.
	for _, position := range []int{0, 1, 2} {
		var setupErr error
		eager := func(api API) func(Dispatch) Dispatch {
			_, setupErr = api.Dispatch(context.Background(), "too-early")
			return func(next Dispatch) Dispatch { return next }
		}

		mws := []Middleware{Passthrough(), Passthrough(), Passthrough()}
		mws[position] = eager

		base := func(_ context.Context, _ any) (any, error) { return nil, nil }
		Assemble(base, noState, mws...)

		if !errors.Is(setupErr, ErrDispatchDuringSetup) {
			t.Fatalf("position %d: expected ErrDispatchDuringSetup, got %v", position, setupErr)
		}
	}
}

func TestAssemble_ForwardingDispatchAfterBuild(t *testing.T) {
	// A dispatch issued through the API handle after assembly must run
	// the FULL chain, even when issued by a middleware instantiated
	// before later middleware existed.
	var log []string

	var apiDispatch Dispatch
	capture := func(api API) func(Dispatch) Dispatch {
		apiDispatch = api.Dispatch
		return func(next Dispatch) Dispatch { return next }
	}

	base := func(_ context.Context, action any) (any, error) {
		log = append(log, "base")
		return action, nil
	}

	Assemble(base, noState, capture, makeTag("later", &log))

	res, err := apiDispatch(t.Context(), "replay")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != "replay" {
		t.Fatalf("expected %q, got %v", "replay", res)
	}

	// The middleware added AFTER the capturing one still ran.
	expected := []string{"later:before", "base", "later:after"}
	if len(log) != len(expected) {
		t.Fatalf("log mismatch: got %v, want %v", log, expected)
	}
}

func TestAssemble_SharedAPIHandle(t *testing.T) {
	state := map[string]int{"count": 7}
	var got []any

	observe := func(api API) func(Dispatch) Dispatch {
		got = append(got, api.GetState())
		return func(next Dispatch) Dispatch { return next }
	}

	base := func(_ context.Context, _ any) (any, error) { return nil, nil }
	Assemble(base, func() any { return state }, observe, observe)

	if len(got) != 2 {
		t.Fatalf("expected both middleware to observe state, got %d", len(got))
	}
	for i, s := range got {
		m, ok := s.(map[string]int)
		if !ok || m["count"] != 7 {
			t.Fatalf("middleware %d observed wrong state: %v", i, s)
		}
	}
}

func TestActionType(t *testing.T) {
	if got := ActionType(incrementAction{}); got != "counter/increment" {
		t.Fatalf("ActionType(typer) = %q, want %q", got, "counter/increment")
	}
	if got := ActionType("plain"); got != "string" {
		t.Fatalf("ActionType(string) = %q, want %q", got, "string")
	}
}
