package logger_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tphakala/calendar-go/internal/logger"
)

// decodeLines parses JSON log lines from buf
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		out = append(out, entry)
	}
	return out
}

func TestSlogLoggerLevels(t *testing.T) {
	testCases := []struct {
		name     string
		level    logger.LogLevel
		log      func(l logger.Logger)
		expected bool
	}{
		{"debug hidden at info", logger.LogLevelInfo, func(l logger.Logger) { l.Debug("msg") }, false},
		{"info shown at info", logger.LogLevelInfo, func(l logger.Logger) { l.Info("msg") }, true},
		{"warn shown at info", logger.LogLevelInfo, func(l logger.Logger) { l.Warn("msg") }, true},
		{"trace hidden at debug", logger.LogLevelDebug, func(l logger.Logger) { l.Trace("msg") }, false},
		{"trace shown at trace", logger.LogLevelTrace, func(l logger.Logger) { l.Trace("msg") }, true},
		{"error always shown", logger.LogLevelError, func(l logger.Logger) { l.Error("msg") }, true},
		{"info hidden at warn", logger.LogLevelWarn, func(l logger.Logger) { l.Info("msg") }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tc.log(logger.NewSlogLogger(buf, tc.level, time.UTC))
			assert.Equal(t, tc.expected, buf.Len() > 0)
		})
	}
}

func TestModuleAndFields(t *testing.T) {
	buf := &bytes.Buffer{}
	base := logger.NewSlogLogger(buf, logger.LogLevelDebug, time.UTC)

	log := base.Module("datastore").Module("sqlite").With(logger.String("table", "events"))
	log.Info("row inserted",
		logger.Uint64("id", 7),
		logger.Bool("created", true),
		logger.Error(errors.New("none")),
		logger.Duration("elapsed", 1500*time.Millisecond))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	entry := entries[0]

	assert.Equal(t, "row inserted", entry["msg"])
	assert.Equal(t, "datastore.sqlite", entry["module"])
	assert.Equal(t, "events", entry["table"])
	assert.InDelta(t, 7, entry["id"], 0)
	assert.Equal(t, true, entry["created"])
	assert.Equal(t, "none", entry["error"])
	assert.Equal(t, "1.5s", entry["elapsed"])
}

func TestWithDoesNotLeakIntoParent(t *testing.T) {
	buf := &bytes.Buffer{}
	parent := logger.NewSlogLogger(buf, logger.LogLevelInfo, time.UTC).Module("api")
	_ = parent.With(logger.String("request_id", "abc"))

	parent.Info("plain")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], "request_id")
}

func TestWithContextAddsTraceID(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.NewSlogLogger(buf, logger.LogLevelInfo, time.UTC)

	ctx := logger.WithTraceID(t.Context(), "trace-123")
	log.WithContext(ctx).Info("traced")
	log.WithContext(t.Context()).Info("untraced")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "trace-123", entries[0]["trace_id"])
	assert.NotContains(t, entries[1], "trace_id")
}

func TestCentralLoggerModuleFile(t *testing.T) {
	dir := t.TempDir()
	accessLog := filepath.Join(dir, "access.log")

	cfg := &logger.LoggingConfig{
		DefaultLevel: "info",
		Timezone:     "UTC",
		Console:      &logger.ConsoleOutput{Enabled: false},
		FileOutput: &logger.FileOutput{
			Enabled: true,
			Path:    filepath.Join(dir, "main.log"),
			Level:   "info",
		},
		ModuleOutputs: map[string]logger.ModuleOutput{
			"access": {Enabled: true, FilePath: accessLog, Level: "debug"},
		},
	}

	cl, err := logger.NewCentralLogger(cfg)
	require.NoError(t, err)

	cl.Module("access").Debug("GET /api/events", logger.Int("status", 200))
	cl.Module("datastore").Info("opened")
	require.NoError(t, cl.Flush())
	require.NoError(t, cl.Close())

	access, err := os.ReadFile(accessLog)
	require.NoError(t, err)
	assert.Contains(t, string(access), "GET /api/events")
	assert.NotContains(t, string(access), "opened")

	main, err := os.ReadFile(filepath.Join(dir, "main.log"))
	require.NoError(t, err)
	assert.Contains(t, string(main), `"module":"datastore"`)
}

func TestCentralLoggerRejectsBadTimezone(t *testing.T) {
	_, err := logger.NewCentralLogger(&logger.LoggingConfig{Timezone: "Mars/Olympus"})
	require.Error(t, err)

	_, err = logger.NewCentralLogger(nil)
	require.Error(t, err)
}

func TestBufferedFileWriterCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	w, err := logger.NewBufferedFileWriter(path, 0)
	require.NoError(t, err)

	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("again\n"))
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestGormAdapterTrace(t *testing.T) {
	buf := &bytes.Buffer{}
	adapter := logger.NewGormLoggerAdapter(logger.NewSlogLogger(buf, logger.LogLevelDebug, time.UTC), 10*time.Millisecond)
	query := func() (string, int64) { return "SELECT 1", 1 }

	// Fast successful query stays below debug
	adapter.Trace(t.Context(), time.Now(), query, nil)
	assert.Zero(t, buf.Len())

	// Record-not-found is expected and not a warning
	adapter.Trace(t.Context(), time.Now(), query, gorm.ErrRecordNotFound)
	assert.Zero(t, buf.Len())

	adapter.Trace(t.Context(), time.Now().Add(-time.Second), query, nil)
	adapter.Trace(t.Context(), time.Now(), query, errors.New("locked"))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "slow query", entries[0]["msg"])
	assert.Equal(t, "query error", entries[1]["msg"])
	assert.Equal(t, "locked", entries[1]["error"])
}

func TestSlogLoggerTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	logger.NewSlogLogger(buf, logger.LogLevelInfo, tokyo).
		Info("tick", logger.Time("at", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Contains(t, buf.String(), `"at":"2024-01-01T09:00:00+09:00"`)
}
