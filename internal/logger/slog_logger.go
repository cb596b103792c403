package logger

import (
	"io"
	"os"
	"time"
)

// NewSlogLogger creates a standalone JSON Logger writing to w, mostly for tests.
// A nil writer means stdout and a nil timezone means time.Local.
func NewSlogLogger(w io.Writer, level LogLevel, tz *time.Location) Logger {
	if w == nil {
		w = os.Stdout
	}
	if tz == nil {
		tz = time.Local
	}
	lvl := parseLogLevel(string(level))
	return newModuleLogger("", newJSONHandler(w, lvl, tz), lvl)
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger {
	return NewSlogLogger(io.Discard, LogLevelError, time.UTC)
}
