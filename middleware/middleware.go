// Package middleware defines the action-dispatch middleware contract and
// the machinery that assembles independently-authored middleware into a
// single effective dispatch function.
//
// A middleware is instantiated once against an [API] handle, receives the
// rest of the chain as its next [Dispatch], and returns the dispatch it
// wants to expose upstream. Middleware never know about each other; the
// configured order alone decides who wraps whom.
package middleware

import (
	"context"
	"errors"
	"fmt"
)

// Dispatch submits an action for processing and returns whatever the
// terminal stage (or an intercepting middleware) chose to produce. The
// action is opaque to the chain: any value, record-shaped or not, passes
// through unexamined.
type Dispatch func(ctx context.Context, action any) (any, error)

// Middleware is the three-level contract every interceptor satisfies:
// API handle in, next handler in, dispatch out. A middleware may call
// next zero times (short-circuit), exactly once (pass-through), or
// several times (fan-out, e.g. retries); the contract places no
// restriction on call count or on the shape of the returned result.
type Middleware func(api API) func(next Dispatch) Dispatch

// API is the handle every middleware receives at instantiation time.
// All middleware of one pipeline share the same handle.
type API struct {
	// Dispatch forwards to the fully assembled chain, even from
	// middleware instantiated before assembly finished. Calling it while
	// the chain is still under construction fails with
	// [ErrDispatchDuringSetup].
	Dispatch Dispatch

	// GetState reads the current state snapshot from the external store.
	GetState func() any
}

// ErrDispatchDuringSetup is returned when a middleware (or code it
// synchronously triggers) dispatches through the API handle before the
// chain has been assembled.
var ErrDispatchDuringSetup = errors.New("middleware: dispatching while constructing the pipeline is not allowed")

// Typer is implemented by record actions that expose a type tag.
type Typer interface {
	ActionType() string
}

// ActionType returns the action's type tag when it implements [Typer],
// falling back to the Go type name for anything else. Middleware use it
// for labels and matching; the assembly machinery itself never calls it.
func ActionType(action any) string {
	if t, ok := action.(Typer); ok {
		return t.ActionType()
	}
	return fmt.Sprintf("%T", action)
}
