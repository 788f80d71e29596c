package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// L2 is a Redis-backed snapshot layer that survives process restarts.
// All operations fail soft: if Redis is unavailable, methods return a
// miss (or silently discard the write) instead of surfacing the error to
// the dispatch path.
type L2 struct {
	rdb *redis.Client
}

// NewL2 creates a new Redis-backed L2 store.
func NewL2(addr, password string, db int) *L2 {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &L2{rdb: rdb}
}

// Load retrieves a snapshot by key. Returns (nil, false, nil) on a miss
// or when Redis is unreachable.
func (l *L2) Load(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := l.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		// Fail soft: treat connection errors as a miss.
		return nil, false, nil
	}
	return val, true, nil
}

// Save stores a snapshot under key with the given TTL. A zero TTL means
// no automatic expiration. Errors are silently discarded (fail soft).
func (l *L2) Save(ctx context.Context, key string, snap []byte, ttl time.Duration) error {
	_ = l.rdb.Set(ctx, key, snap, ttl).Err()
	return nil
}

// LoadOrCapture returns the stored snapshot for key, calling capture and
// saving its result on a miss. Unlike L1, concurrent captures for the
// same key are not deduplicated; Redis handles the races.
func (l *L2) LoadOrCapture(ctx context.Context, key string, ttl time.Duration, capture func(context.Context) ([]byte, error)) ([]byte, error) {
	if v, ok, _ := l.Load(ctx, key); ok {
		return v, nil
	}
	snap, err := capture(ctx)
	if err != nil {
		return nil, err
	}
	_ = l.Save(ctx, key, snap, ttl)
	return snap, nil
}

// Ping checks the Redis connection.
func (l *L2) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (l *L2) Close() error {
	return l.rdb.Close()
}
