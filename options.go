package goacornflow

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Keksclan/goAcornFlow/auth"
	"github.com/Keksclan/goAcornFlow/breaker"
	"github.com/Keksclan/goAcornFlow/middleware"
	"github.com/Keksclan/goAcornFlow/policy"
	"github.com/Keksclan/goAcornFlow/ratelimit"
	"github.com/Keksclan/goAcornFlow/retry"
	"github.com/Keksclan/goAcornFlow/snapshot"
	"github.com/Keksclan/goAcornFlow/tracing"
)

// Middleware execution order is determined by fixed priority levels, not
// by the order options are passed to [New]. Lower values run closer to
// the caller (outermost). Custom middleware registered via
// [WithMiddleware] runs at OrderUser; [WithMiddlewareAt] places it
// anywhere.
const (
	OrderRecovery      = 100
	OrderDispatchID    = 150
	OrderLogger        = 200
	OrderCrashReporter = 250
	OrderMetrics       = 300
	OrderTracing       = 400
	OrderTimeout       = 450
	OrderAuth          = 500
	OrderRateLimit     = 600
	OrderBreaker       = 700
	OrderRetry         = 800
	OrderSnapshot      = 850
	OrderThunk         = 900
	OrderUser          = 1000
)

// Option configures a Pipeline.
type Option func(*config)

// WithMiddleware registers a custom middleware at OrderUser, the
// innermost slot before the terminal stage.
func WithMiddleware(mw middleware.Middleware) Option {
	return func(c *config) {
		c.middlewares.Add(OrderUser, mw)
	}
}

// WithMiddlewareAt registers a custom middleware at an explicit order so
// it can be interleaved with the built-in slots.
func WithMiddlewareAt(order int, mw middleware.Middleware) Option {
	return func(c *config) {
		c.middlewares.Add(order, mw)
	}
}

// WithRecovery converts panics anywhere below it in the chain into
// *[middleware.PanicError] values instead of crashing the caller.
func WithRecovery() Option {
	return func(c *config) {
		c.middlewares.Add(OrderRecovery, middleware.Recovery())
	}
}

// WithDispatchID ensures every dispatch carries a dispatch ID in its
// context. IDs already set upstream are preserved.
func WithDispatchID() Option {
	return func(c *config) {
		c.middlewares.Add(OrderDispatchID, middleware.DispatchID())
	}
}

// WithLogger logs every action entering the chain and the state snapshot
// after it unwinds. A nil logger falls back to [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.middlewares.Add(OrderLogger, middleware.Logger(logger))
	}
}

// WithCrashReporter hands every downstream failure (error or panic) to
// report without suppressing it.
func WithCrashReporter(report func(action any, failure error)) Option {
	return func(c *config) {
		c.middlewares.Add(OrderCrashReporter, middleware.CrashReporter(report))
	}
}

// WithMetrics records Prometheus counters, a latency histogram, and an
// in-flight gauge for every dispatch. A nil Registerer uses
// [prometheus.DefaultRegisterer], which is what [Pipeline.MetricsHandler]
// serves.
func WithMetrics(reg prometheus.Registerer) Option {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return func(c *config) {
		c.middlewares.Add(OrderMetrics, middleware.Metrics(reg))
	}
}

// WithTracing creates an OpenTelemetry span per dispatch. A nil config
// installs a no-op passthrough, keeping the slot stable.
func WithTracing(cfg *tracing.Config) Option {
	return func(c *config) {
		c.middlewares.Add(OrderTracing, tracing.Middleware(cfg))
	}
}

// WithTimeout bounds each dispatch with a context deadline. Per-group
// timeouts from the resolver override d; a nil resolver applies d to
// every dispatch.
func WithTimeout(d time.Duration, r *policy.Resolver) Option {
	return func(c *config) {
		c.middlewares.Add(OrderTimeout, middleware.Timeout(d, r))
	}
}

// WithAuth authenticates dispatches via fn. With a resolver only action
// groups marked AuthRequired are authenticated; a nil resolver
// authenticates everything.
func WithAuth(fn auth.Func, r *policy.Resolver) Option {
	return func(c *config) {
		c.middlewares.Add(OrderAuth, middleware.Auth(fn, r))
	}
}

// WithRateLimit sheds dispatches once the global token bucket (rps,
// burst) is exhausted. Action groups with a RateLimit policy in the
// resolver get their own per-group buckets.
func WithRateLimit(rps float64, burst int, r *policy.Resolver) Option {
	return func(c *config) {
		c.middlewares.Add(OrderRateLimit, middleware.RateLimit(ratelimit.NewLimiter(rps, burst), r))
	}
}

// WithBreaker shields the terminal stage with a circuit breaker; while
// open, dispatches fail fast with [middleware.ErrBreakerOpen].
func WithBreaker(cfg breaker.Config) Option {
	return func(c *config) {
		c.middlewares.Add(OrderBreaker, middleware.Breaker(breaker.New(cfg)))
	}
}

// WithRetry re-dispatches transient failures per cfg. It sits inside the
// breaker slot so an exhausted retry run counts as one breaker failure.
func WithRetry(cfg retry.Config) Option {
	return func(c *config) {
		c.middlewares.Add(OrderRetry, middleware.Retry(cfg))
	}
}

// WithThunks executes [middleware.ThunkAction] values with the live API
// handle instead of forwarding them to the terminal stage. extra is
// injected into every thunk call.
func WithThunks(extra any) Option {
	return func(c *config) {
		c.middlewares.Add(OrderThunk, middleware.Thunk(extra))
	}
}

// WithSnapshotL1 enables an in-process ristretto-backed snapshot store.
// Combined with [WithSnapshotL2] the two form a tiered store.
func WithSnapshotL1(maxCost int64) Option {
	return func(c *config) {
		l1, err := snapshot.NewL1(maxCost)
		if err != nil {
			return
		}
		c.l1 = l1
	}
}

// WithSnapshotL2 enables a Redis-backed snapshot store. Combined with
// [WithSnapshotL1] the two form a tiered store.
func WithSnapshotL2(addr, password string, db int) Option {
	return func(c *config) {
		c.l2 = snapshot.NewL2(addr, password, db)
	}
}

// WithSnapshots customizes how state snapshots are written (key
// derivation, serialization, TTL). The store itself comes from cfg.Store
// when set, otherwise from the L1/L2 options.
func WithSnapshots(cfg middleware.SnapshotConfig) Option {
	return func(c *config) {
		c.snap = &cfg
	}
}
