package middleware

import (
	"context"

	"github.com/Keksclan/goAcornFlow/retry"
)

// Retry returns a middleware that re-dispatches the action through next
// when it fails with an error the configured predicate deems transient.
// Back-off and attempt counting follow cfg; see [retry.Do].
//
// Place retry inside the breaker (closer to the terminal stage) so that
// exhausted retries count as a single breaker failure.
func Retry(cfg retry.Config) Middleware {
	return func(api API) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				return retry.Do(ctx, cfg, func(ctx context.Context) (any, error) {
					return next(ctx, action)
				})
			}
		}
	}
}
