// Package errors - reporter integration
package errors

import (
	"sync/atomic"
)

// Reporter receives every EnhancedError built while reporting is active.
// This interface allows the errors package to feed metrics without
// importing the observability packages.
type Reporter interface {
	ReportError(ee *EnhancedError)
}

var (
	globalReporter     atomic.Pointer[Reporter]
	hasActiveReporting atomic.Bool
)

// SetReporter installs the global reporter. Passing nil disables reporting
// and restores the fast build path.
func SetReporter(reporter Reporter) {
	if reporter == nil {
		globalReporter.Store(nil)
		hasActiveReporting.Store(false)
		return
	}
	globalReporter.Store(&reporter)
	hasActiveReporting.Store(true)
}

// report hands the error to the active reporter
func report(ee *EnhancedError) {
	if !hasActiveReporting.Load() {
		return
	}

	reporterPtr := globalReporter.Load()
	if reporterPtr == nil || *reporterPtr == nil {
		return
	}

	(*reporterPtr).ReportError(ee)
	ee.MarkReported()
}
