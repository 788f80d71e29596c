// Package auth provides the authentication function type used by the
// optional authentication middleware.
package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned by the authentication middleware when an
// action requires an authenticated actor and the Func reports failure.
var ErrUnauthenticated = errors.New("auth: unauthenticated")

// Func is a user-supplied callback that authenticates a dispatch.  It
// receives the dispatch context and the action type.  On success it returns
// a (possibly enriched) context; on failure it returns an error.
//
// The library does NOT parse tokens; that is the responsibility of the
// Func implementation.
type Func func(ctx context.Context, actionType string) (context.Context, error)
