// Package metrics provides custom Prometheus metrics for the calendar service.
package metrics

// Recorder defines a minimal interface for recording metrics.
// Components that only count outcomes depend on this instead of a concrete
// metrics struct, so tests can pass a TestRecorder.
type Recorder interface {
	// RecordOperation records an operation with its status
	// (e.g. "holiday_lookup", "success").
	RecordOperation(operation, status string)

	// RecordDuration records the duration of an operation in seconds.
	RecordDuration(operation string, seconds float64)

	// RecordError records an error occurrence with its type.
	RecordError(operation, errorType string)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordOperation(string, string) {}
func (NopRecorder) RecordDuration(string, float64) {}
func (NopRecorder) RecordError(string, string) {}

var (
	_ Recorder = NopRecorder{}
	_ Recorder = (*HolidayMetrics)(nil)
	_ Recorder = (*CalculatorMetrics)(nil)
)
