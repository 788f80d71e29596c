package snapshot

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func mustNewL1(t *testing.T) *L1 {
	t.Helper()
	s, err := NewL1(1000)
	if err != nil {
		t.Fatalf("NewL1: %v", err)
	}
	return s
}

func TestL1_LoadSave(t *testing.T) {
	s := mustNewL1(t)
	ctx := t.Context()

	// Miss returns false.
	_, ok, err := s.Load(ctx, "snap1")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}

	// Save then Load.
	if err := s.Save(ctx, "snap1", []byte(`{"count":1}`), 0); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	snap, ok, err := s.Load(ctx, "snap1")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if string(snap) != `{"count":1}` {
		t.Fatalf("got %q, want %q", snap, `{"count":1}`)
	}
}

func TestL1_LoadOrCapture_CaptureCalledOnce(t *testing.T) {
	s := mustNewL1(t)
	ctx := t.Context()

	var calls atomic.Int32
	capture := func(_ context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte("projected"), nil
	}

	v1, err := s.LoadOrCapture(ctx, "proj", time.Minute, capture)
	if err != nil {
		t.Fatalf("LoadOrCapture 1: %v", err)
	}
	if string(v1) != "projected" {
		t.Fatalf("got %q, want %q", v1, "projected")
	}

	v2, err := s.LoadOrCapture(ctx, "proj", time.Minute, capture)
	if err != nil {
		t.Fatalf("LoadOrCapture 2: %v", err)
	}
	if string(v2) != "projected" {
		t.Fatalf("got %q, want %q", v2, "projected")
	}

	if n := calls.Load(); n != 1 {
		t.Fatalf("capture called %d times, want 1", n)
	}
}

func TestL1_TTLExpires(t *testing.T) {
	s := mustNewL1(t)
	ctx := t.Context()

	if err := s.Save(ctx, "ttl", []byte("temp"), 50*time.Millisecond); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// Should be present immediately.
	_, ok, _ := s.Load(ctx, "ttl")
	if !ok {
		t.Fatal("expected hit before TTL")
	}

	// Wait for expiration. Ristretto cleanup may need a bit of extra time.
	time.Sleep(200 * time.Millisecond)

	_, ok, _ = s.Load(ctx, "ttl")
	if ok {
		t.Fatal("expected miss after TTL")
	}
}
