package middleware

import (
	"context"
	"errors"

	"github.com/Keksclan/goAcornFlow/breaker"
)

// ErrBreakerOpen is returned while the circuit breaker is open and
// dispatches are being shed.
var ErrBreakerOpen = errors.New("middleware: circuit breaker open")

// Breaker returns a middleware that routes every dispatch through the
// given circuit breaker. While the breaker is open, dispatches fail fast
// with [ErrBreakerOpen] and never reach next. Outcomes of admitted
// dispatches feed the breaker's failure counting.
func Breaker(b *breaker.Breaker) Middleware {
	return func(api API) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				if !b.Allow() {
					return nil, ErrBreakerOpen
				}
				result, err := next(ctx, action)
				if err != nil {
					b.OnFailure()
					return nil, err
				}
				b.OnSuccess()
				return result, nil
			}
		}
	}
}
