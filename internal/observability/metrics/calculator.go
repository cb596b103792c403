package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CalculatorMetrics tracks expression evaluations.
type CalculatorMetrics struct {
	registry *prometheus.Registry

	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	errorsTotal        *prometheus.CounterVec

	collectors []prometheus.Collector
}

// NewCalculatorMetrics creates and registers calculator metrics
func NewCalculatorMetrics(registry *prometheus.Registry) (*CalculatorMetrics, error) {
	m := &CalculatorMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, err
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *CalculatorMetrics) initMetrics() error {
	m.evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculator_evaluations_total",
			Help: "Total number of calculator evaluations",
		},
		[]string{"operation", "status"},
	)

	m.evaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calculator_evaluation_duration_seconds",
			Help:    "Time taken to evaluate an expression",
			Buckets: prometheus.ExponentialBuckets(BucketStart100us/10, BucketFactor2, BucketCount12),
		},
		[]string{"operation"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculator_errors_total",
			Help: "Total number of rejected expressions by reason",
		},
		[]string{"operation", "error_type"}, // error_type: invalid_characters, division_by_zero, invalid_expression
	)

	m.collectors = []prometheus.Collector{
		m.evaluationsTotal,
		m.evaluationDuration,
		m.errorsTotal,
	}
	return nil
}

// Describe implements the Collector interface
func (m *CalculatorMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *CalculatorMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordOperation implements Recorder
func (m *CalculatorMetrics) RecordOperation(operation, status string) {
	m.evaluationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordDuration implements Recorder
func (m *CalculatorMetrics) RecordDuration(operation string, seconds float64) {
	m.evaluationDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordError implements Recorder
func (m *CalculatorMetrics) RecordError(operation, errorType string) {
	m.errorsTotal.WithLabelValues(operation, errorType).Inc()
}
