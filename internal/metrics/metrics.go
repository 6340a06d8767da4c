package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CheckoutMetrics struct {
	Outcomes        *prometheus.CounterVec
	CaptureRequests prometheus.Counter
}

func NewCheckoutMetrics() *CheckoutMetrics {
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "craftshop",
		Subsystem: "checkout",
		Name:      "outcomes_total",
		Help:      "Terminal checkout outcomes by state.",
	}, []string{"outcome"})
	captures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "craftshop",
		Subsystem: "checkout",
		Name:      "gateway_capture_requests_total",
		Help:      "Capture calls issued to the payment gateway.",
	})

	prometheus.MustRegister(outcomes, captures)
	return &CheckoutMetrics{Outcomes: outcomes, CaptureRequests: captures}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
