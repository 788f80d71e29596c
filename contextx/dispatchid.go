// Package contextx provides context helpers for values that travel with
// a dispatch through the middleware chain: the dispatch ID, the dispatch
// origin, and the authenticated actor.
package contextx

import "context"

// WithDispatchID returns a derived context that carries the given
// dispatch ID.
func WithDispatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, dispatchIDKey, id)
}

// DispatchIDFromContext extracts the dispatch ID stored in ctx.
// It returns an empty string when no dispatch ID is present.
func DispatchIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(dispatchIDKey).(string)
	return id
}
