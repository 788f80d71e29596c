// Package snapshot stores serialized state snapshots taken after
// dispatches. An in-process L1 backed by ristretto and a Redis-backed L2
// can be used alone or combined into a [Tiered] store; the snapshot
// middleware writes into whichever store it is given.
package snapshot

import (
	"context"
	"time"
)

// Store is the snapshot persistence contract.
type Store interface {
	// Load retrieves a snapshot by key. The boolean indicates a hit.
	Load(ctx context.Context, key string) ([]byte, bool, error)

	// Save stores a snapshot under key with the given TTL. A zero TTL
	// means the snapshot has no automatic expiration.
	Save(ctx context.Context, key string, snap []byte, ttl time.Duration) error

	// LoadOrCapture returns the stored snapshot for key. On a miss it
	// calls capture exactly once, stores the result, and returns it.
	// Useful for memoizing expensive state projections.
	LoadOrCapture(ctx context.Context, key string, ttl time.Duration, capture func(context.Context) ([]byte, error)) ([]byte, error)
}
