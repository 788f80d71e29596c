package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Keksclan/goAcornFlow/snapshot"
)

// SnapshotConfig controls the snapshot middleware.
type SnapshotConfig struct {
	// Store receives the serialized state after each successful dispatch.
	Store snapshot.Store

	// Key derives the storage key from the dispatched action. When nil
	// every snapshot is written under "state".
	Key func(action any) string

	// Marshal serializes the state read from the API handle. When nil,
	// encoding/json is used.
	Marshal func(state any) ([]byte, error)

	// TTL is passed to the store on every save. Zero means no expiry.
	TTL time.Duration
}

// Snapshot returns a middleware that persists a snapshot of the current
// state after every successful dispatch. Snapshots are written fail-soft:
// a marshal or store error never fails the dispatch that triggered it.
// Failed dispatches are not snapshotted.
func Snapshot(cfg SnapshotConfig) Middleware {
	key := cfg.Key
	if key == nil {
		key = func(any) string { return "state" }
	}
	marshal := cfg.Marshal
	if marshal == nil {
		marshal = func(state any) ([]byte, error) { return json.Marshal(state) }
	}

	return func(api API) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				result, err := next(ctx, action)
				if err != nil {
					return nil, err
				}

				if snap, mErr := marshal(api.GetState()); mErr == nil {
					_ = cfg.Store.Save(ctx, key(action), snap, cfg.TTL)
				}
				return result, nil
			}
		}
	}
}
