package generation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts provider attempts. A nil *Metrics records nothing.
type Metrics struct {
	attempts *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	failures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postcraft",
			Subsystem: "generation",
			Name:      "provider_attempts_total",
			Help:      "Provider calls by provider, chain role and outcome.",
		}, []string{"provider", "role", "outcome"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "postcraft",
			Subsystem: "generation",
			Name:      "provider_duration_seconds",
			Help:      "Provider call latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}, []string{"provider"}),
		failures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "postcraft",
			Subsystem: "generation",
			Name:      "exhausted_total",
			Help:      "Requests for which every provider failed.",
		}),
	}
}

func (m *Metrics) observe(provider string, role Role, err error, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.attempts.WithLabelValues(provider, string(role), outcome).Inc()
	m.latency.WithLabelValues(provider).Observe(took.Seconds())
}

func (m *Metrics) exhausted() {
	if m == nil {
		return
	}
	m.failures.Inc()
}
