package middleware

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the RPC collectors for the bill service.
type Metrics struct {
	// requests counts RPCs by procedure and result code ("ok" on success).
	requests *prometheus.CounterVec
	// latency measures RPC handling time in seconds.
	latency *prometheus.HistogramVec
	// settlements tracks how many transfers each calculation produced.
	settlements prometheus.Histogram
}

// NewMetrics registers the RPC collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billsplit",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Total RPCs handled, by procedure and code",
		}, []string{"procedure", "code"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "billsplit",
			Subsystem: "rpc",
			Name:      "duration_seconds",
			Help:      "RPC handling latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"procedure"}),
		settlements: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "billsplit",
			Subsystem: "calculator",
			Name:      "settlements",
			Help:      "Number of settlements produced per calculation",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
	}
}

// ObserveSettlements records the size of one settlement plan.
// Safe to call on a nil *Metrics.
func (m *Metrics) ObserveSettlements(n int) {
	if m == nil {
		return
	}
	m.settlements.Observe(float64(n))
}

// Interceptor records a request count and latency sample for every RPC.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			m.latency.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(procedure, codeLabel(err)).Inc()
			return resp, err
		}
	}
}

func codeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Code().String()
	}
	return connect.CodeUnknown.String()
}
