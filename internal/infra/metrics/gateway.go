package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		gatewayRequestsTotal,
		gatewayRequestDuration,
	)
}

var (
	// op: create_order|fetch_payment; outcome: ok|rejected|transport_error
	gatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Calls to the payment gateway by operation and outcome.",
		},
		[]string{"provider", "op", "outcome"},
	)

	gatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Payment gateway call latency in seconds.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		},
		[]string{"provider", "op"},
	)
)

func ObserveGateway(provider, op, outcome string, elapsed time.Duration) {
	gatewayRequestsTotal.WithLabelValues(norm(provider), norm(op), norm(outcome)).Inc()
	gatewayRequestDuration.WithLabelValues(norm(provider), norm(op)).Observe(elapsed.Seconds())
}
