package middleware

import (
	"context"
	"log/slog"
)

// Logger returns a middleware that records every action before it enters
// the rest of the chain and the resulting state snapshot once it unwinds.
// A nil logger falls back to [slog.Default].
func Logger(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(api API) func(next Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				logger.InfoContext(ctx, "dispatching",
					slog.String("action", ActionType(action)),
				)

				res, err := next(ctx, action)
				if err != nil {
					logger.ErrorContext(ctx, "dispatch failed",
						slog.String("action", ActionType(action)),
						slog.Any("error", err),
					)
					return res, err
				}

				logger.InfoContext(ctx, "dispatched",
					slog.String("action", ActionType(action)),
					slog.Any("state", api.GetState()),
				)
				return res, nil
			}
		}
	}
}
