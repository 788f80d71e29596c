package middleware

import (
	"context"
	"fmt"
)

// CrashReporter returns a middleware that wraps the rest of the chain in
// a scoped failure boundary. Errors from downstream are handed to report
// and returned unchanged; panics are reported and re-raised. The
// middleware never suppresses a failure on its own: the caller (or an
// enclosing Recovery middleware) still observes it.
func CrashReporter(report func(action any, failure error)) Middleware {
	return func(API) func(next Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (res any, err error) {
				defer func() {
					if r := recover(); r != nil {
						report(action, fmt.Errorf("dispatch panic: %v", r))
						panic(r)
					}
				}()

				res, err = next(ctx, action)
				if err != nil {
					report(action, err)
				}
				return res, err
			}
		}
	}
}
