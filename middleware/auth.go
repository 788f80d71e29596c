package middleware

import (
	"context"
	"fmt"

	"github.com/Keksclan/goAcornFlow/auth"
	"github.com/Keksclan/goAcornFlow/policy"
)

// Auth returns a middleware that authenticates dispatches via fn.
//
// When a policy resolver is provided, only action types that resolve to a
// group with AuthRequired set are authenticated; everything else passes
// through untouched. A nil resolver means every dispatch is
// authenticated.
//
// On success the (possibly enriched) context returned by fn replaces the
// dispatch context for the rest of the chain; this is how an
// authenticated [contextx.Actor] reaches downstream middleware. On
// failure the dispatch is rejected without reaching next.
func Auth(fn auth.Func, r *policy.Resolver) Middleware {
	return func(api API) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				actionType := ActionType(action)

				if r != nil {
					_, pol, ok := r.Resolve(actionType)
					if !ok || pol == nil || !pol.AuthRequired {
						return next(ctx, action)
					}
				}

				authedCtx, err := fn(ctx, actionType)
				if err != nil {
					return nil, fmt.Errorf("%w: %w", auth.ErrUnauthenticated, err)
				}
				return next(authedCtx, action)
			}
		}
	}
}
