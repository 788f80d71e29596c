package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/Keksclan/goAcornFlow/contextx"
)

// newDispatchID generates a random hex-encoded dispatch identifier.
func newDispatchID() string {
	var buf [16]byte
	_, _ = rand.Read(buf[:])
	return hex.EncodeToString(buf[:])
}

// ensureDispatchID returns the context enriched with a dispatch ID if one
// is not already present. IDs set upstream (e.g. by the remote transport)
// are preserved.
func ensureDispatchID(ctx context.Context) context.Context {
	if contextx.DispatchIDFromContext(ctx) == "" {
		ctx = contextx.WithDispatchID(ctx, newDispatchID())
	}
	return ctx
}

// DispatchID returns a middleware that ensures every dispatch carries a
// dispatch ID in its context.
func DispatchID() Middleware {
	return func(api API) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				return next(ensureDispatchID(ctx), action)
			}
		}
	}
}
