// Package tracing provides OpenTelemetry span instrumentation for the
// dispatch pipeline. It is entirely optional: tracing is only active when
// [Config] is wired in via the WithTracing pipeline option.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Keksclan/goAcornFlow/contextx"
	"github.com/Keksclan/goAcornFlow/middleware"
)

// Config holds the OpenTelemetry configuration used by the tracing
// middleware.
type Config struct {
	// TracerProvider supplies the Tracer used to create spans. When nil the
	// global otel.GetTracerProvider() is used.
	TracerProvider trace.TracerProvider
}

// tracer returns a configured [trace.Tracer].
func (c *Config) tracer() trace.Tracer {
	tp := c.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer("github.com/Keksclan/goAcornFlow/tracing")
}

// Middleware returns a middleware that creates a span for every dispatch.
// If cfg is nil the middleware is a no-op passthrough.
func Middleware(cfg *Config) middleware.Middleware {
	if cfg == nil {
		return middleware.Passthrough()
	}
	return func(api middleware.API) func(middleware.Dispatch) middleware.Dispatch {
		return func(next middleware.Dispatch) middleware.Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				actionType := middleware.ActionType(action)
				ctx, span := cfg.tracer().Start(ctx, "dispatch "+actionType,
					trace.WithSpanKind(trace.SpanKindInternal))
				defer span.End()

				span.SetAttributes(
					attribute.String("flow.action", actionType),
					attribute.String("flow.origin", string(contextx.OriginFromContext(ctx))),
				)
				if id := contextx.DispatchIDFromContext(ctx); id != "" {
					span.SetAttributes(attribute.String("flow.dispatch_id", id))
				}

				result, err := next(ctx, action)
				recordStatus(span, err)
				return result, err
			}
		}
	}
}

// recordStatus sets the span status and records any dispatch error.
func recordStatus(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
