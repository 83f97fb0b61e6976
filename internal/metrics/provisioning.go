package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Index provisioning Prometheus metrics.
var (
	IndexAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autoindex",
			Name:      "index_attempts_total",
			Help:      "Auto index creation attempts by outcome",
		},
		[]string{"tier", "method", "status"},
	)

	IndexDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "autoindex",
			Name:      "index_duration_seconds",
			Help:      "CREATE INDEX execution time in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"tier"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autoindex",
			Name:      "notifications_total",
			Help:      "Schema-evolution notifications handled",
		},
		[]string{"kind", "source", "status"},
	)

	CapabilityTier = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "autoindex",
			Name:      "capability_tier",
			Help:      "Detected engine tier (1 for the active tier)",
		},
		[]string{"tier"},
	)
)

var registerOnce sync.Once

// RegisterProvisioningMetrics registers index provisioning metrics. Safe to call more than once.
func RegisterProvisioningMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(IndexAttemptsTotal)
		prometheus.MustRegister(IndexDuration)
		prometheus.MustRegister(NotificationsTotal)
		prometheus.MustRegister(CapabilityTier)
	})
}

// SetCapabilityTier sets the active tier's gauge to 1 and every other listed tier to 0.
func SetCapabilityTier(active string, all ...string) {
	for _, t := range all {
		CapabilityTier.WithLabelValues(t).Set(0)
	}
	CapabilityTier.WithLabelValues(active).Set(1)
}
