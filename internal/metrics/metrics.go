// Package metrics exports dashboard operation metrics to prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sentineldash"

// Metrics holds the prometheus collectors for guarded operations. The
// collectors live on a private registry, not the global default one.
type Metrics struct {
	registry *prometheus.Registry

	OperationsInFlight *prometheus.GaugeVec
	OperationDuration  *prometheus.HistogramVec
	OperationFailures  *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with every collector registered.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		OperationsInFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "operations_in_flight",
			Help:      "Number of dashboard operations currently pending",
		}, []string{"operation"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of finished dashboard operations",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation", "outcome"}),
		OperationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Total number of failed dashboard operations",
		}, []string{"operation"}),
	}

	m.registry.MustRegister(m.OperationsInFlight, m.OperationDuration, m.OperationFailures)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// OperationStarted increments the in-flight gauge.
func (m *Metrics) OperationStarted(key string) {
	m.OperationsInFlight.WithLabelValues(key).Inc()
}

// OperationFinished records duration and outcome.
func (m *Metrics) OperationFinished(key string, elapsed time.Duration, err error) {
	m.OperationsInFlight.WithLabelValues(key).Dec()

	outcome := "success"
	if err != nil {
		outcome = "failure"
		m.OperationFailures.WithLabelValues(key).Inc()
	}
	m.OperationDuration.WithLabelValues(key, outcome).Observe(elapsed.Seconds())
}
