package contextx

import (
	"slices"
	"testing"
)

func TestWithDispatchIDRoundTrip(t *testing.T) {
	ctx := WithDispatchID(t.Context(), "disp-abc-123")
	got := DispatchIDFromContext(ctx)
	if got != "disp-abc-123" {
		t.Fatalf("got %q, want %q", got, "disp-abc-123")
	}
}

func TestDispatchIDFromContextMissing(t *testing.T) {
	got := DispatchIDFromContext(t.Context())
	if got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestOriginRoundTrip(t *testing.T) {
	ctx := WithOrigin(t.Context(), OriginRemote)
	if got := OriginFromContext(ctx); got != OriginRemote {
		t.Fatalf("got %q, want %q", got, OriginRemote)
	}
}

func TestOriginDefaultsToLocal(t *testing.T) {
	if got := OriginFromContext(t.Context()); got != OriginLocal {
		t.Fatalf("got %q, want %q", got, OriginLocal)
	}
}

func TestWithActorRoundTrip(t *testing.T) {
	ctx := t.Context()
	a := Actor{
		Subject:  "user-1",
		Tenant:   "tenant-a",
		ClientID: "client-42",
		Scopes:   []string{"read", "write"},
	}

	ctx = WithActor(ctx, a)
	got, ok := ActorFromContext(ctx)
	if !ok {
		t.Fatal("expected actor in context")
	}
	if got.Subject != a.Subject {
		t.Fatalf("Subject: got %q, want %q", got.Subject, a.Subject)
	}
	if got.Tenant != a.Tenant {
		t.Fatalf("Tenant: got %q, want %q", got.Tenant, a.Tenant)
	}
	if !slices.Equal(got.Scopes, a.Scopes) {
		t.Fatalf("Scopes: got %v, want %v", got.Scopes, a.Scopes)
	}
}

func TestActorFromContextMissing(t *testing.T) {
	_, ok := ActorFromContext(t.Context())
	if ok {
		t.Fatal("expected no actor in empty context")
	}
}
