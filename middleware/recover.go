package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
)

// PanicError wraps a panic recovered during a dispatch, together with the
// stack trace captured at the point of recovery.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("dispatch panic: %v", e.Value)
}

// Recovery returns a middleware that converts a panic anywhere below it
// in the chain into a *[PanicError] instead of crashing the caller.
func Recovery() Middleware {
	return func(API) func(next Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (res any, err error) {
				defer func() {
					if r := recover(); r != nil {
						res = nil
						err = &PanicError{Value: r, Stack: string(debug.Stack())}
					}
				}()
				return next(ctx, action)
			}
		}
	}
}
