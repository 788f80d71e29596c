package middleware

import (
	"context"
	"testing"

	"github.com/Keksclan/goAcornFlow/contextx"
)

func TestDispatchID_GeneratesWhenAbsent(t *testing.T) {
	var seen string
	base := func(ctx context.Context, action any) (any, error) {
		seen = contextx.DispatchIDFromContext(ctx)
		return action, nil
	}

	d := Assemble(base, noState, DispatchID())
	if _, err := d(t.Context(), incrementAction{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 32 {
		t.Fatalf("expected a 32-char hex dispatch ID, got %q", seen)
	}
}

func TestDispatchID_PreservesExisting(t *testing.T) {
	var seen string
	base := func(ctx context.Context, action any) (any, error) {
		seen = contextx.DispatchIDFromContext(ctx)
		return action, nil
	}

	d := Assemble(base, noState, DispatchID())
	ctx := contextx.WithDispatchID(t.Context(), "upstream-id")
	if _, err := d(ctx, incrementAction{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != "upstream-id" {
		t.Fatalf("expected the upstream ID to survive, got %q", seen)
	}
}

func TestDispatchID_UniquePerDispatch(t *testing.T) {
	ids := make(map[string]bool)
	base := func(ctx context.Context, action any) (any, error) {
		ids[contextx.DispatchIDFromContext(ctx)] = true
		return action, nil
	}

	d := Assemble(base, noState, DispatchID())
	for range 10 {
		if _, err := d(t.Context(), incrementAction{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(ids) != 10 {
		t.Fatalf("expected 10 distinct dispatch IDs, got %d", len(ids))
	}
}
