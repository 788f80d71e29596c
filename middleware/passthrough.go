package middleware

// Passthrough returns a middleware that forwards every action to next
// unchanged. A chain containing it behaves exactly as if it were absent;
// it exists as a conformance reference and as the no-op slot used when an
// optional middleware is disabled.
func Passthrough() Middleware {
	return func(API) func(next Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return next
		}
	}
}
