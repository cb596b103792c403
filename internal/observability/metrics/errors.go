package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tphakala/calendar-go/internal/errors"
)

// ErrorMetrics counts enhanced errors as they are built. It is installed as
// the errors package reporter so every component reports without extra calls.
type ErrorMetrics struct {
	registry *prometheus.Registry

	errorsTotal *prometheus.CounterVec

	collectors []prometheus.Collector
}

// NewErrorMetrics creates and registers error metrics
func NewErrorMetrics(registry *prometheus.Registry) (*ErrorMetrics, error) {
	m := &ErrorMetrics{registry: registry}
	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_errors_total",
			Help: "Total number of application errors by component and category",
		},
		[]string{"component", "category", "priority"},
	)
	m.collectors = []prometheus.Collector{m.errorsTotal}

	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements the Collector interface
func (m *ErrorMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *ErrorMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// ReportError implements errors.Reporter
func (m *ErrorMetrics) ReportError(ee *errors.EnhancedError) {
	if ee == nil {
		return
	}
	m.errorsTotal.WithLabelValues(ee.GetComponent(), ee.GetCategory(), ee.GetPriority()).Inc()
}

var _ errors.Reporter = (*ErrorMetrics)(nil)
