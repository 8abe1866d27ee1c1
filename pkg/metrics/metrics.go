// Package metrics exposes Prometheus instrumentation for repository
// operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation status labels.
const (
	StatusOK    = "ok"
	StatusNoop  = "noop"
	StatusError = "error"
)

// Metrics holds the repository collectors.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	batchSize  *prometheus.HistogramVec
	breaker    *prometheus.GaugeVec
}

// New creates the collectors under namespace (default "cgm") and registers
// them on reg. A nil reg leaves them unregistered.
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "cgm"
	}

	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "repository_operations_total",
				Help:      "Total number of repository operations",
			},
			[]string{"entity", "operation", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "repository_operation_duration_seconds",
				Help:      "Duration of repository operations in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 30},
			},
			[]string{"entity", "operation"},
		),
		batchSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "repository_batch_size",
				Help:      "Number of items in batch operations",
				Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
			},
			[]string{"entity", "operation"},
		),
		breaker: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "storage_circuit_state",
				Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open",
			},
			[]string{"name"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.operations, m.duration, m.batchSize, m.breaker} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Observe records one operation that started at start. A nil Metrics does
// nothing.
func (m *Metrics) Observe(entity, operation, status string, start time.Time) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(entity, operation, status).Inc()
	m.duration.WithLabelValues(entity, operation).Observe(time.Since(start).Seconds())
}

// ObserveBatch records the size of a batch operation.
func (m *Metrics) ObserveBatch(entity, operation string, size int) {
	if m == nil {
		return
	}
	m.batchSize.WithLabelValues(entity, operation).Observe(float64(size))
}

// SetBreakerState records a circuit breaker state (resilience.State value).
func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.breaker.WithLabelValues(name).Set(float64(state))
}

// Status maps an operation outcome to a status label.
func Status(applied bool, err error) string {
	switch {
	case err != nil:
		return StatusError
	case !applied:
		return StatusNoop
	default:
		return StatusOK
	}
}
