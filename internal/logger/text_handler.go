package logger

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// levelNames maps custom levels to their printed names
var levelNames = map[slog.Level]string{
	traceLevelValue: "TRACE",
}

// newTextHandler returns the console handler: text format, no timestamps,
// TRACE level rendered by name. The timezone applies to time-valued fields.
func newTextHandler(w io.Writer, level slog.Level, tz *time.Location) slog.Handler {
	if tz == nil {
		tz = time.Local
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				lvl, ok := a.Value.Any().(slog.Level)
				if !ok {
					return a
				}
				if name, found := levelNames[lvl]; found {
					a.Value = slog.StringValue(name)
				} else {
					a.Value = slog.StringValue(strings.ToUpper(lvl.String()))
				}
			default:
				if a.Value.Kind() == slog.KindTime {
					a.Value = slog.StringValue(a.Value.Time().In(tz).Format(time.RFC3339))
				}
			}
			return a
		},
	}

	return slog.NewTextHandler(w, opts)
}

// newJSONHandler returns the file handler. Timestamps are written in tz.
func newJSONHandler(w io.Writer, level slog.Level, tz *time.Location) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindTime {
				a.Value = slog.TimeValue(a.Value.Time().In(tz))
			}
			return a
		},
	})
}
