// Package core holds the internal plumbing shared by the public pipeline
// surface: the priority-ordered middleware builder.
package core

import (
	"cmp"
	"slices"

	"github.com/Keksclan/goAcornFlow/middleware"
)

// entry represents a single middleware with a deterministic execution
// order. Lower Order values run closer to the caller (outermost).
type entry struct {
	MW    middleware.Middleware
	Order int
}

// MiddlewareBuilder collects middleware entries and produces a sorted
// slice ready for assembly.
type MiddlewareBuilder struct {
	entries []entry
}

// Add registers a middleware with the given order.
func (b *MiddlewareBuilder) Add(order int, mw middleware.Middleware) {
	b.entries = append(b.entries, entry{MW: mw, Order: order})
}

// Build sorts the collected middleware by Order (stable) and returns the
// slice in execution order. Equal orders keep their registration order.
func (b *MiddlewareBuilder) Build() []middleware.Middleware {
	slices.SortStableFunc(b.entries, func(a, c entry) int {
		return cmp.Compare(a.Order, c.Order)
	})

	mws := make([]middleware.Middleware, 0, len(b.entries))
	for _, e := range b.entries {
		mws = append(mws, e.MW)
	}
	return mws
}
