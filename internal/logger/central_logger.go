package logger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	// Embed timezone database so logger timezones resolve on every platform.
	_ "time/tzdata"
)

const (
	// traceLevelValue is slog.Level for TRACE level (below Debug which is -4)
	traceLevelValue = slog.Level(-8)

	// floatPrecisionRatio rounds floats to 3 decimal places in log output
	floatPrecisionRatio = 1000.0
)

var (
	globalLogger   *CentralLogger
	globalLoggerMu sync.Mutex
)

// SetGlobal sets the global CentralLogger instance.
func SetGlobal(cl *CentralLogger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = cl
}

// Global returns the global CentralLogger instance, or a console fallback
// if SetGlobal has not been called yet.
func Global() *CentralLogger {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()

	if globalLogger == nil {
		globalLogger = &CentralLogger{
			config: &LoggingConfig{DefaultLevel: DefaultLogLevel},
			base:   newTextHandler(os.Stdout, slog.LevelInfo, time.Local),
		}
	}
	return globalLogger
}

// loggerContextKey is a typed key for context values.
type loggerContextKey struct{ name string }

// TraceIDKey is the context key for trace IDs. Use WithTraceID() to set values.
var TraceIDKey = loggerContextKey{"trace_id"}

// WithTraceID returns a new context with the trace ID set
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// CentralLogger routes module loggers to the console, the main log file
// and dedicated per-module files.
type CentralLogger struct {
	config  *LoggingConfig
	tz      *time.Location
	base    slog.Handler
	writers map[string]*BufferedFileWriter // by file path; the main file included
	modules map[string]slog.Handler        // modules with their own file
	mu      sync.RWMutex
}

// NewCentralLogger creates a centralized logger with module routing
func NewCentralLogger(cfg *LoggingConfig) (*CentralLogger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logging config cannot be nil")
	}
	applyConfigDefaults(cfg)

	tz := time.Local
	if cfg.Timezone != "" && cfg.Timezone != "Local" {
		var err error
		if tz, err = time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("invalid timezone %s: %w", cfg.Timezone, err)
		}
	}

	cl := &CentralLogger{
		config:  cfg,
		tz:      tz,
		writers: make(map[string]*BufferedFileWriter),
		modules: make(map[string]slog.Handler),
	}
	if err := cl.init(); err != nil {
		_ = cl.Close()
		return nil, err
	}
	return cl, nil
}

func (cl *CentralLogger) init() error {
	var handlers []slog.Handler
	if cl.config.Console.Enabled {
		handlers = append(handlers, newTextHandler(os.Stdout, parseLogLevel(cl.config.Console.Level), cl.tz))
	}
	if out := cl.config.FileOutput; out.Enabled {
		w, err := cl.writer(out.Path)
		if err != nil {
			return err
		}
		handlers = append(handlers, newJSONHandler(w, parseLogLevel(out.Level), cl.tz))
	}
	if len(handlers) == 0 {
		handlers = append(handlers, newTextHandler(os.Stdout, parseLogLevel(cl.config.DefaultLevel), cl.tz))
	}
	cl.base = combineHandlers(handlers...)

	for module, out := range cl.config.ModuleOutputs {
		if !out.Enabled {
			continue
		}
		w, err := cl.writer(out.FilePath)
		if err != nil {
			return fmt.Errorf("module %s: %w", module, err)
		}
		cl.modules[module] = newJSONHandler(w, cl.moduleLevel(module), cl.tz)
	}
	return nil
}

// writer opens path once, however many outputs share it.
func (cl *CentralLogger) writer(path string) (*BufferedFileWriter, error) {
	if w, ok := cl.writers[path]; ok {
		return w, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	w, err := NewBufferedFileWriter(path, DefaultFlushInterval)
	if err != nil {
		return nil, err
	}
	cl.writers[path] = w
	return w, nil
}

// moduleLevel resolves a module's level: its output override, then
// module_levels, then the default.
func (cl *CentralLogger) moduleLevel(name string) slog.Level {
	if out, ok := cl.config.ModuleOutputs[name]; ok && out.Enabled && out.Level != "" {
		return parseLogLevel(out.Level)
	}
	if level, ok := cl.config.ModuleLevels[name]; ok {
		return parseLogLevel(level)
	}
	return parseLogLevel(cl.config.DefaultLevel)
}

// Module returns a logger scoped to a specific module
func (cl *CentralLogger) Module(name string) Logger {
	if cl == nil {
		return nil
	}
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	handler, ok := cl.modules[name]
	if !ok {
		handler = cl.base
	}
	return newModuleLogger(name, handler, cl.moduleLevel(name))
}

// Close flushes and closes every log file.
func (cl *CentralLogger) Close() error {
	if cl == nil {
		return nil
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()

	var errs []error
	for path, w := range cl.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close log file %s: %w", path, err))
		}
	}
	cl.writers = nil
	return errors.Join(errs...)
}

// Flush writes all buffered logs to OS buffers.
func (cl *CentralLogger) Flush() error {
	if cl == nil {
		return nil
	}
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	var errs []error
	for path, w := range cl.writers {
		if err := w.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush log file %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

// parseLogLevel converts string level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch level {
	case "trace":
		return traceLevelValue
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// moduleLogger implements Logger interface for a specific module
type moduleLogger struct {
	module string
	logger *slog.Logger
	level  slog.Level
	fields []Field
}

func newModuleLogger(module string, h slog.Handler, level slog.Level) *moduleLogger {
	return &moduleLogger{module: module, logger: slog.New(h), level: level}
}

// Module creates a sub-module logger with its own copy of fields.
func (m *moduleLogger) Module(name string) Logger {
	if m == nil {
		return nil
	}
	sub := *m
	if m.module != "" {
		name = m.module + "." + name
	}
	sub.module = name
	sub.fields = slices.Clone(m.fields)
	return &sub
}

func (m *moduleLogger) Trace(msg string, fields ...Field) { m.log(traceLevelValue, msg, fields) }
func (m *moduleLogger) Debug(msg string, fields ...Field) { m.log(slog.LevelDebug, msg, fields) }
func (m *moduleLogger) Info(msg string, fields ...Field)  { m.log(slog.LevelInfo, msg, fields) }
func (m *moduleLogger) Warn(msg string, fields ...Field)  { m.log(slog.LevelWarn, msg, fields) }
func (m *moduleLogger) Error(msg string, fields ...Field) { m.log(slog.LevelError, msg, fields) }

// With returns a new logger with accumulated fields
func (m *moduleLogger) With(fields ...Field) Logger {
	if m == nil {
		return nil
	}
	sub := *m
	sub.fields = slices.Concat(m.fields, fields)
	return &sub
}

// WithContext returns a logger carrying the context's trace ID, if any
func (m *moduleLogger) WithContext(ctx context.Context) Logger {
	if m == nil {
		return nil
	}
	traceID := getTraceIDFromContext(ctx)
	if traceID == "" {
		return m
	}
	return m.With(String(traceIDKey, traceID))
}

// Flush is a no-op; module loggers don't own file handles
func (m *moduleLogger) Flush() error {
	return nil
}

// log drops records below the module level; errors always pass.
func (m *moduleLogger) log(level slog.Level, msg string, fields []Field) {
	if m == nil || (level < slog.LevelError && level < m.level) {
		return
	}

	attrs := make([]slog.Attr, 0, 1+len(m.fields)+len(fields))
	if m.module != "" {
		attrs = append(attrs, slog.String(moduleKey, m.module))
	}
	for _, f := range m.fields {
		attrs = append(attrs, fieldToAttr(f))
	}
	for _, f := range fields {
		attrs = append(attrs, fieldToAttr(f))
	}
	m.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// fieldToAttr converts Field to slog.Attr; floats keep three decimals.
func fieldToAttr(f Field) slog.Attr {
	switch v := f.Value.(type) {
	case string:
		return slog.String(f.Key, v)
	case int:
		return slog.Int(f.Key, v)
	case int64:
		return slog.Int64(f.Key, v)
	case uint64:
		return slog.Uint64(f.Key, v)
	case float64:
		return slog.Float64(f.Key, math.Round(v*floatPrecisionRatio)/floatPrecisionRatio)
	case bool:
		return slog.Bool(f.Key, v)
	case time.Time:
		return slog.Time(f.Key, v)
	default:
		return slog.Any(f.Key, v)
	}
}

// getTraceIDFromContext extracts trace ID from context.
func getTraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}
