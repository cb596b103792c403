// Package observability provides metrics and monitoring capabilities for the calendar service.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tphakala/calendar-go/internal/errors"
	"github.com/tphakala/calendar-go/internal/logger"
	"github.com/tphakala/calendar-go/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry   *prometheus.Registry
	log        logger.Logger
	HTTP       *metrics.HTTPMetrics
	Datastore  *metrics.DatastoreMetrics
	Holiday    *metrics.HolidayMetrics
	Calculator *metrics.CalculatorMetrics
	Errors     *metrics.ErrorMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric collectors
// on a private registry. Go runtime and process collectors are included.
func NewMetrics(log logger.Logger) (*Metrics, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	registry := prometheus.NewRegistry()

	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register Go collector: %w", err)
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	datastoreMetrics, err := metrics.NewDatastoreMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Datastore metrics: %w", err)
	}

	holidayMetrics, err := metrics.NewHolidayMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Holiday metrics: %w", err)
	}

	calculatorMetrics, err := metrics.NewCalculatorMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calculator metrics: %w", err)
	}

	errorMetrics, err := metrics.NewErrorMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create Error metrics: %w", err)
	}

	return &Metrics{
		registry:   registry,
		log:        log.Module("metrics"),
		HTTP:       httpMetrics,
		Datastore:  datastoreMetrics,
		Holiday:    holidayMetrics,
		Calculator: calculatorMetrics,
		Errors:     errorMetrics,
	}, nil
}

// EnableErrorReporting routes every built EnhancedError into the error counter.
func (m *Metrics) EnableErrorReporting() {
	errors.SetReporter(m.Errors)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      promLogger{log: m.log},
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
