package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HolidayMetrics tracks holiday lookups and the computed-year cache.
type HolidayMetrics struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	cacheEntries      prometheus.Gauge

	collectors []prometheus.Collector
}

// NewHolidayMetrics creates and registers holiday metrics
func NewHolidayMetrics(registry *prometheus.Registry) (*HolidayMetrics, error) {
	m := &HolidayMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, err
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *HolidayMetrics) initMetrics() error {
	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holiday_operations_total",
			Help: "Total number of holiday operations",
		},
		[]string{"operation", "status"},
	)

	m.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "holiday_operation_duration_seconds",
			Help:    "Time taken for holiday operations",
			Buckets: prometheus.ExponentialBuckets(BucketStart100us, BucketFactor2, BucketCount12),
		},
		[]string{"operation"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holiday_errors_total",
			Help: "Total number of holiday errors",
		},
		[]string{"operation", "error_type"},
	)

	m.cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holiday_cache_lookups_total",
			Help: "Holiday cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)

	m.cacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "holiday_cache_entries",
			Help: "Number of cached country/year holiday lists",
		},
	)

	m.collectors = []prometheus.Collector{
		m.operationsTotal,
		m.operationDuration,
		m.errorsTotal,
		m.cacheLookups,
		m.cacheEntries,
	}
	return nil
}

// Describe implements the Collector interface
func (m *HolidayMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *HolidayMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordOperation implements Recorder
func (m *HolidayMetrics) RecordOperation(operation, status string) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordDuration implements Recorder
func (m *HolidayMetrics) RecordDuration(operation string, seconds float64) {
	m.operationDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordError implements Recorder
func (m *HolidayMetrics) RecordError(operation, errorType string) {
	m.errorsTotal.WithLabelValues(operation, errorType).Inc()
}

// RecordCacheLookup records a cache hit or miss
func (m *HolidayMetrics) RecordCacheLookup(hit bool) {
	if hit {
		m.cacheLookups.WithLabelValues(LabelHit).Inc()
		return
	}
	m.cacheLookups.WithLabelValues(LabelMiss).Inc()
}

// UpdateCacheSize sets the number of cached entries
func (m *HolidayMetrics) UpdateCacheSize(entries int) {
	m.cacheEntries.Set(float64(entries))
}
