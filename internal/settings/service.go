// Package settings layers typed defaults over the string key/value settings
// kept by the datastore.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tphakala/calendar-go/internal/datastore"
	"github.com/tphakala/calendar-go/internal/errors"
	"github.com/tphakala/calendar-go/internal/logger"
	"github.com/tphakala/calendar-go/internal/tz"
)

// Backend is the subset of the datastore the service needs.
type Backend interface {
	LookupSetting(ctx context.Context, key string) datastore.Result[string]
	SetSetting(ctx context.Context, key, value string) datastore.Result[bool]
}

// Service resolves settings as stored value, then compiled default, then
// caller fallback. It keeps no state besides the immutable default table.
type Service struct {
	store Backend
	log   logger.Logger
}

// NewService creates a settings service over store.
func NewService(store Backend, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Service{store: store, log: log.Module("settings")}
}

func (s *Service) lookup(ctx context.Context, key string) (string, bool) {
	res := s.store.LookupSetting(ctx, key)
	if res.OK() {
		return res.Value, true
	}
	if res.Fault() {
		s.log.WithContext(ctx).Warn("setting lookup failed, using default",
			logger.String("key", key),
			logger.Error(res.Err))
	}
	return "", false
}

// Get returns the stored value for key, else the compiled default, else the
// first fallback, else "".
func (s *Service) Get(ctx context.Context, key string, fallback ...string) string {
	if v, ok := s.lookup(ctx, key); ok {
		return v
	}
	if d, ok := defaults[key]; ok {
		return d.Value
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}

// Resolve returns the stored value or the default for key, and whether
// either exists.
func (s *Service) Resolve(ctx context.Context, key string) (string, bool) {
	if v, ok := s.lookup(ctx, key); ok {
		return v, true
	}
	if d, ok := defaults[key]; ok {
		return d.Value, true
	}
	return "", false
}

// GetString is Get without fallback.
func (s *Service) GetString(ctx context.Context, key string) string {
	return s.Get(ctx, key)
}

// GetBool interprets the setting as a bool. Unparsable stored values fall
// back to the compiled default; unknown keys yield false.
func (s *Service) GetBool(ctx context.Context, key string) bool {
	if v, ok := s.lookup(ctx, key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
		s.log.Debug("stored value is not a bool, using default",
			logger.String("key", key), logger.String("value", v))
	}
	if d, ok := defaults[key]; ok {
		b, _ := strconv.ParseBool(d.Value)
		return b
	}
	return false
}

// GetInt interprets the setting as an int. Unparsable stored values fall
// back to the compiled default; unknown keys yield 0.
func (s *Service) GetInt(ctx context.Context, key string) int {
	if v, ok := s.lookup(ctx, key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	if d, ok := defaults[key]; ok {
		n, _ := strconv.Atoi(d.Value)
		return n
	}
	return 0
}

// Stringify renders a value the way it is stored.
func Stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []string:
		return strings.Join(v, ",")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Validate checks value against the kind of a known key. Unknown keys accept
// any value.
func Validate(key, value string) error {
	d, ok := defaults[key]
	if !ok {
		return nil
	}
	switch d.Kind {
	case KindBool:
		if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
			return errors.ValidationError(fmt.Sprintf("%s must be true or false", key))
		}
	case KindInt:
		if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
			return errors.ValidationError(fmt.Sprintf("%s must be an integer", key))
		}
	}
	if key == KeyTimezone {
		if _, err := tz.Load(value); err != nil {
			return errors.ValidationError(fmt.Sprintf("unknown timezone %q", value))
		}
	}
	return nil
}

// Set stores value under key. It returns false when the store rejects or
// fails the write.
func (s *Service) Set(ctx context.Context, key string, value any) bool {
	res := s.store.SetSetting(ctx, key, Stringify(value))
	if !res.OK() {
		s.log.WithContext(ctx).Warn("failed to store setting",
			logger.String("key", key),
			logger.String("status", res.Status.String()),
			logger.Error(res.Err))
		return false
	}
	return true
}

// GetAll resolves every default key.
func (s *Service) GetAll(ctx context.Context) map[string]string {
	out := make(map[string]string, len(defaults))
	for key := range defaults {
		out[key] = s.Get(ctx, key)
	}
	return out
}

// GetAllTyped resolves every default key to its typed value.
func (s *Service) GetAllTyped(ctx context.Context) map[string]any {
	out := make(map[string]any, len(defaults))
	for key, d := range defaults {
		switch d.Kind {
		case KindBool:
			out[key] = s.GetBool(ctx, key)
		case KindInt:
			out[key] = s.GetInt(ctx, key)
		default:
			out[key] = s.Get(ctx, key)
		}
	}
	return out
}

// ResetToDefaults writes every default back. Per-key failures are logged and
// do not change the result; only a recovered panic returns false.
func (s *Service) ResetToDefaults(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("reset to defaults panicked", logger.Any("panic", r))
			ok = false
		}
	}()

	for _, key := range Keys() {
		if !s.Set(ctx, key, defaults[key].Value) {
			s.log.Warn("failed to reset setting", logger.String("key", key))
		}
	}
	return true
}

// NormalizeCountries trims, upper-cases and drops blank codes.
func NormalizeCountries(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// HolidayCountries returns the stored holiday country codes.
func (s *Service) HolidayCountries(ctx context.Context) []string {
	raw := s.Get(ctx, KeyHolidayCountries, defaults[KeyHolidayCountries].Value)
	return NormalizeCountries(strings.Split(raw, ","))
}

// SetHolidayCountries stores codes as a comma-joined list.
func (s *Service) SetHolidayCountries(ctx context.Context, codes []string) bool {
	return s.Set(ctx, KeyHolidayCountries, NormalizeCountries(codes))
}
