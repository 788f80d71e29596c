package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsSet bundles the collectors the metrics middleware maintains.
type metricsSet struct {
	dispatches *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	inFlight   prometheus.Gauge
}

func newMetricsSet(reg prometheus.Registerer) *metricsSet {
	m := &metricsSet{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acornflow_dispatch_total",
			Help: "Total number of dispatched actions by type and outcome.",
		}, []string{"action", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "acornflow_dispatch_duration_seconds",
			Help:    "Dispatch latency through the full middleware chain.",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "acornflow_dispatch_in_flight",
			Help: "Number of dispatches currently in the chain.",
		}),
	}
	reg.MustRegister(m.dispatches, m.duration, m.inFlight)
	return m
}

// Metrics returns a middleware that records a counter, a latency
// histogram, and an in-flight gauge for every dispatch. Collectors are
// registered once, when the middleware is created; passing the same
// Registerer twice panics, as usual with Prometheus.
//
// The outcome label is "ok" or "error". Panics surface as errors only
// when a recovery middleware sits below; otherwise they bypass the
// counter entirely, so place Metrics outside Recovery to count them.
func Metrics(reg prometheus.Registerer) Middleware {
	return metricsWith(newMetricsSet(reg))
}

// metricsWith builds the middleware around an existing collector set.
func metricsWith(m *metricsSet) Middleware {
	return func(api API) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				actionType := ActionType(action)
				m.inFlight.Inc()
				start := time.Now()

				result, err := next(ctx, action)

				m.duration.WithLabelValues(actionType).Observe(time.Since(start).Seconds())
				m.inFlight.Dec()

				outcome := "ok"
				if err != nil {
					outcome = "error"
				}
				m.dispatches.WithLabelValues(actionType, outcome).Inc()
				return result, err
			}
		}
	}
}
