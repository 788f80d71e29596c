package middleware

import (
	"context"
	"time"

	"github.com/Keksclan/goAcornFlow/policy"
)

// Timeout returns a middleware that bounds each dispatch with a context
// deadline. When a policy resolver is provided and the action type
// resolves to a group with a Timeout policy, that per-group timeout
// replaces the default. A resulting deadline of zero disables the bound
// for that dispatch.
func Timeout(d time.Duration, r *policy.Resolver) Middleware {
	return func(api API) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				timeout := d
				if r != nil {
					if _, pol, ok := r.Resolve(ActionType(action)); ok && pol != nil && pol.Timeout > 0 {
						timeout = pol.Timeout
					}
				}
				if timeout <= 0 {
					return next(ctx, action)
				}

				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()
				return next(ctx, action)
			}
		}
	}
}
