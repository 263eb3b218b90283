package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EndpointMetrics tracks latency and errors of the signal API endpoints.
type EndpointMetrics struct {
	Latency *prometheus.HistogramVec
	Errors  *prometheus.CounterVec
}

func NewEndpointMetrics(reg prometheus.Registerer) *EndpointMetrics {
	f := promauto.With(reg)
	return &EndpointMetrics{
		Latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fxsignals",
				Subsystem: "api",
				Name:      "latency_seconds",
				Help:      "Latency of signal API endpoints",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
			[]string{"endpoint"},
		),
		Errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fxsignals",
				Subsystem: "api",
				Name:      "errors_total",
				Help:      "Errors by signal API endpoint",
			},
			[]string{"endpoint"},
		),
	}
}

// Observe records one call of endpoint.
func (m *EndpointMetrics) Observe(endpoint string, seconds float64, failed bool) {
	if m == nil {
		return
	}
	m.Latency.WithLabelValues(endpoint).Observe(seconds)
	if failed {
		m.Errors.WithLabelValues(endpoint).Inc()
	}
}
