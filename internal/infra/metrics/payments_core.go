package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentOrdersTotal,
		paymentOrderAmountMinorTotal,
	)
}

var (
	// result: created|invalid|gateway_error
	paymentOrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_orders_total",
			Help: "Order creation attempts by result.",
		},
		[]string{"result"},
	)

	paymentOrderAmountMinorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_order_amount_minor_total",
			Help: "Sum of created order amounts in minor units, labeled by currency.",
		},
		[]string{"currency"},
	)
)

func IncOrder(result string) {
	paymentOrdersTotal.WithLabelValues(norm(result)).Inc()
}

func AddOrderAmount(currency string, minor int64) {
	paymentOrderAmountMinorTotal.WithLabelValues(norm(currency)).Add(float64(minor))
}
