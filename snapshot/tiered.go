package snapshot

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// Tiered combines an L1 (in-process) and L2 (Redis) store. Reads check
// L1 first, then L2, then the capture function. Writes populate both
// layers.
type Tiered struct {
	l1 *L1
	l2 *L2

	mu       sync.Mutex
	captures map[string]*call
}

// NewTiered creates a two-level snapshot store.
func NewTiered(l1 *L1, l2 *L2) *Tiered {
	return &Tiered{
		l1:       l1,
		l2:       l2,
		captures: make(map[string]*call),
	}
}

// Load checks L1, then L2. On an L2 hit the snapshot is promoted into L1
// (with zero TTL since the original TTL is unknown).
func (t *Tiered) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok, err := t.l1.Load(ctx, key); err != nil || ok {
		return v, ok, err
	}
	v, ok, err := t.l2.Load(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = t.l1.Save(ctx, key, v, 0)
	return v, true, nil
}

// Save writes the snapshot to both L2 and L1.
func (t *Tiered) Save(ctx context.Context, key string, snap []byte, ttl time.Duration) error {
	_ = t.l2.Save(ctx, key, snap, ttl)
	return t.l1.Save(ctx, key, snap, ttl)
}

// LoadOrCapture follows the L1 → L2 → capture pattern, deduplicating
// concurrent captures for the same key.
func (t *Tiered) LoadOrCapture(ctx context.Context, key string, ttl time.Duration, capture func(context.Context) ([]byte, error)) ([]byte, error) {
	if v, ok, _ := t.l1.Load(ctx, key); ok {
		return v, nil
	}

	if v, ok, _ := t.l2.Load(ctx, key); ok {
		_ = t.l1.Save(ctx, key, v, ttl)
		return bytes.Clone(v), nil
	}

	t.mu.Lock()
	if c, ok := t.captures[key]; ok {
		t.mu.Unlock()
		c.wg.Wait()
		if c.err != nil {
			return nil, c.err
		}
		return bytes.Clone(c.snap), nil
	}

	c := &call{}
	c.wg.Add(1)
	t.captures[key] = c
	t.mu.Unlock()

	c.snap, c.err = capture(ctx)
	if c.err == nil {
		_ = t.l2.Save(ctx, key, c.snap, ttl)
		_ = t.l1.Save(ctx, key, c.snap, ttl)
	}
	c.wg.Done()

	t.mu.Lock()
	delete(t.captures, key)
	t.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}
	return bytes.Clone(c.snap), nil
}
