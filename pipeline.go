// Package goacornflow builds composable action-dispatch pipelines around
// an external state store. Middleware (recovery, logging, crash
// reporting, metrics, tracing, auth, rate limiting, circuit breaking,
// retries, snapshots, thunks) are layered via functional [Option] values
// passed to [New]; execution order is determined by fixed priority
// levels, not by the order options appear.
//
//	store := newCounterStore()
//	p := goacornflow.New(store,
//		goacornflow.WithRecovery(),
//		goacornflow.WithLogger(nil),
//		goacornflow.WithThunks(nil),
//	)
//	result, err := p.Dispatch(ctx, incrementAction{})
package goacornflow

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Keksclan/goAcornFlow/middleware"
	"github.com/Keksclan/goAcornFlow/snapshot"
)

// Store is the terminal stage collaborator: it holds the state and knows
// how to reduce an action into it. The pipeline treats both methods as
// opaque; any synchronization between concurrent dispatches is the
// store's responsibility.
type Store interface {
	// GetState returns the current state snapshot.
	GetState() any

	// Dispatch applies the action to the state and returns the terminal
	// result. Record-shaped enforcement, unknown-action handling, and
	// reduction semantics all live here.
	Dispatch(ctx context.Context, action any) (any, error)
}

// Pipeline is the assembled dispatch chain around a [Store].
//
// A Pipeline is immutable after construction; it is safe for concurrent
// use to the extent the underlying store is.
type Pipeline struct {
	dispatch  middleware.Dispatch
	store     Store
	snapshots snapshot.Store
}

// New assembles a Pipeline by applying the supplied functional [Option]
// values and composing the resulting middleware, sorted by priority,
// around the store's dispatch.
//
// Example:
//
//	p := goacornflow.New(store,
//		goacornflow.WithRecovery(),
//		goacornflow.WithRateLimit(500, 100, nil),
//		goacornflow.WithSnapshotL1(10_000),
//	)
func New(store Store, opts ...Option) *Pipeline {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	snapStore := resolveSnapshotStore(&cfg)
	if snapStore != nil {
		sc := middleware.SnapshotConfig{}
		if cfg.snap != nil {
			sc = *cfg.snap
		}
		sc.Store = snapStore
		cfg.middlewares.Add(OrderSnapshot, middleware.Snapshot(sc))
	}

	return &Pipeline{
		dispatch:  middleware.Assemble(store.Dispatch, store.GetState, cfg.middlewares.Build()...),
		store:     store,
		snapshots: snapStore,
	}
}

// resolveSnapshotStore picks the snapshot store from the configuration:
// an explicit store wins, then L1 and L2 are combined into a tiered
// store when both are present.
func resolveSnapshotStore(cfg *config) snapshot.Store {
	if cfg.snap != nil && cfg.snap.Store != nil {
		return cfg.snap.Store
	}
	switch {
	case cfg.l1 != nil && cfg.l2 != nil:
		return snapshot.NewTiered(cfg.l1, cfg.l2)
	case cfg.l1 != nil:
		return cfg.l1
	case cfg.l2 != nil:
		return cfg.l2
	}
	return nil
}

// Dispatch submits an action through the full middleware chain down to
// the store.
func (p *Pipeline) Dispatch(ctx context.Context, action any) (any, error) {
	return p.dispatch(ctx, action)
}

// State returns the store's current state snapshot, bypassing the chain.
func (p *Pipeline) State() any {
	return p.store.GetState()
}

// Snapshots returns the snapshot store configured via the snapshot
// options. It returns nil if none was configured.
func (p *Pipeline) Snapshots() snapshot.Store {
	return p.snapshots
}

// MetricsHandler returns an http.Handler that serves Prometheus metrics.
func (p *Pipeline) MetricsHandler() http.Handler {
	return promhttp.Handler()
}
