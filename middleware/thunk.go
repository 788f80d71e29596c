package middleware

import "context"

// ThunkAction is a callable action. The thunk middleware intercepts it
// before the record-shaped contract of the terminal stage applies and
// invokes it with the live API handle, so the callable can read state and
// dispatch further actions, immediately or after an asynchronous delay.
// A dispatch triggered later from inside a thunk is an independent
// traversal of the full chain.
type ThunkAction func(ctx context.Context, api API, extra any) (any, error)

// Thunk returns a middleware that executes [ThunkAction] values directly,
// bypassing everything below it in the chain, and forwards every other
// action untouched. extra is fixed at construction time and injected into
// every call.
func Thunk(extra any) Middleware {
	return func(api API) func(next Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				if t, ok := action.(ThunkAction); ok {
					return t(ctx, api, extra)
				}
				return next(ctx, action)
			}
		}
	}
}
