package goacornflow

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/Keksclan/goAcornFlow/middleware"
)

// The scenarios below exercise a fully stacked pipeline the way an
// application would use it: logging plus crash reporting around a
// counter store, and thunks driving multi-step flows.

func TestScenario_LoggerAndCrashReporter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var reports []error
	store := &counterStore{}
	p := New(store,
		WithLogger(logger),
		WithCrashReporter(func(_ any, failure error) { reports = append(reports, failure) }),
	)

	// Two good dispatches, one bad.
	for range 2 {
		if _, err := p.Dispatch(t.Context(), incrementAction{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := p.Dispatch(t.Context(), addTodoAction{Text: "oops"}); err == nil {
		t.Fatal("expected error for unknown action")
	}

	if store.count != 2 {
		t.Fatalf("expected count 2, got %d", store.count)
	}
	if len(reports) != 1 {
		t.Fatalf("expected exactly one crash report, got %d", len(reports))
	}

	out := buf.String()
	if !strings.Contains(out, "counter/increment") {
		t.Fatalf("expected increments in the log, got:\n%s", out)
	}
	if !strings.Contains(out, "dispatch failed") {
		t.Fatalf("expected the failure in the log, got:\n%s", out)
	}
}

func TestScenario_ThunkDrivesMultiStepFlow(t *testing.T) {
	store := &counterStore{}
	p := New(store,
		WithRecovery(),
		WithThunks(nil),
	)

	incrementTwice := middleware.ThunkAction(func(ctx context.Context, api middleware.API, _ any) (any, error) {
		if _, err := api.Dispatch(ctx, incrementAction{}); err != nil {
			return nil, err
		}
		return api.Dispatch(ctx, incrementAction{})
	})

	if _, err := p.Dispatch(t.Context(), incrementTwice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state := p.State().(map[string]int); state["count"] != 2 {
		t.Fatalf("expected count 2, got %d", state["count"])
	}
}

func TestScenario_SnapshotsCaptureStateProgression(t *testing.T) {
	store := &counterStore{}
	p := New(store,
		WithSnapshotL1(10_000),
	)

	if p.Snapshots() == nil {
		t.Fatal("expected a snapshot store")
	}

	if _, err := p.Dispatch(t.Context(), incrementAction{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// L1 admission is asynchronous in ristretto; Load via the middleware
	// write path is best-effort, so only assert the dispatch flow here.
	if state := p.State().(map[string]int); state["count"] != 1 {
		t.Fatalf("expected count 1, got %d", state["count"])
	}
}
