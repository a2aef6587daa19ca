package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		PaymentVerifyRequests,
		PaymentVerifyDuration,
	)
}

var (
	// Count of verify calls grouped by result and bounded reason.
	// result: ok|fail|error
	// reason: matched|details_unavailable|mismatch|missing_parameter|bad_request|internal
	PaymentVerifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verify_requests_total",
			Help: "Count of /api/verify-payment calls by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Latency of verify handler grouped by result.
	PaymentVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_verify_duration_seconds",
			Help:    "Duration of /api/verify-payment handler in seconds.",
			Buckets: []float64{0.001, 0.005, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"result"},
	)
)

// ObserveVerify records one verification outcome.
func ObserveVerify(result, reason string, elapsed time.Duration) {
	PaymentVerifyRequests.WithLabelValues(norm(result), norm(reason)).Inc()
	PaymentVerifyDuration.WithLabelValues(norm(result)).Observe(elapsed.Seconds())
}
