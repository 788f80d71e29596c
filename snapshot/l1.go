package snapshot

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// L1 is an in-process snapshot store backed by ristretto.
type L1 struct {
	rc *ristretto.Cache[string, []byte]

	mu       sync.Mutex
	captures map[string]*call
}

// call deduplicates concurrent captures for the same key.
type call struct {
	wg   sync.WaitGroup
	snap []byte
	err  error
}

// NewL1 creates a new L1 store. maxCost controls the maximum cost the
// underlying cache can hold (each snapshot has a cost of 1).
func NewL1(maxCost int64) (*L1, error) {
	rc, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &L1{
		rc:       rc,
		captures: make(map[string]*call),
	}, nil
}

// Load retrieves a snapshot by key.
func (l *L1) Load(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := l.rc.Get(key)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

// Save stores a snapshot under key with the given TTL.
func (l *L1) Save(_ context.Context, key string, snap []byte, ttl time.Duration) error {
	l.rc.SetWithTTL(key, bytes.Clone(snap), 1, ttl)
	l.rc.Wait()
	return nil
}

// LoadOrCapture returns the stored snapshot for key. On a miss it calls
// capture once (deduplicating concurrent callers for the same key),
// stores the result, and returns it.
func (l *L1) LoadOrCapture(ctx context.Context, key string, ttl time.Duration, capture func(context.Context) ([]byte, error)) ([]byte, error) {
	if v, ok, _ := l.Load(ctx, key); ok {
		return v, nil
	}

	l.mu.Lock()
	if c, ok := l.captures[key]; ok {
		l.mu.Unlock()
		c.wg.Wait()
		if c.err != nil {
			return nil, c.err
		}
		return bytes.Clone(c.snap), nil
	}

	c := &call{}
	c.wg.Add(1)
	l.captures[key] = c
	l.mu.Unlock()

	c.snap, c.err = capture(ctx)
	if c.err == nil {
		_ = l.Save(ctx, key, c.snap, ttl)
	}
	c.wg.Done()

	l.mu.Lock()
	delete(l.captures, key)
	l.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}
	return bytes.Clone(c.snap), nil
}
