// Package tz lists the curated timezones and converts between them.
package tz

import (
	"slices"
	"strings"
	"time"

	// Embedded zone database so lookups work on hosts without zoneinfo.
	_ "time/tzdata"

	"github.com/tphakala/calendar-go/internal/errors"
)

// DisplayLayout is the layout used for human-readable current times.
const DisplayLayout = "2006-01-02 15:04:05 MST"

// curated is the fixed list offered to clients.
var curated = []string{
	"UTC",
	"America/New_York",
	"America/Chicago",
	"America/Denver",
	"America/Los_Angeles",
	"Europe/London",
	"Europe/Berlin",
	"Europe/Paris",
	"Asia/Tokyo",
	"Asia/Shanghai",
	"Asia/Kolkata",
	"Australia/Sydney",
}

// ErrUnknownZone is returned for names the zone database does not know.
var ErrUnknownZone = errors.NewStd("unknown timezone")

// Info describes a zone at a given instant.
type Info struct {
	Name        string `json:"name"`
	UTCOffset   string `json:"utc_offset"`
	DSTActive   bool   `json:"dst_active"`
	CurrentTime string `json:"current_time"`
}

// Service answers timezone queries. now is swappable for tests.
type Service struct {
	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a timezone service.
func NewService(opts ...Option) *Service {
	s := &Service{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available returns the curated zone names.
func Available() []string {
	return slices.Clone(curated)
}

// IsCurated reports whether name is in the curated list.
func IsCurated(name string) bool {
	return slices.Contains(curated, name)
}

// Load resolves any zone the embedded database knows, not only curated ones.
func Load(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Newf("%w: empty name", ErrUnknownZone).
			Component("tz").
			Category(errors.CategoryValidation).
			Build()
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Newf("%w: %s", ErrUnknownZone, name).
			Component("tz").
			Category(errors.CategoryTimezone).
			Context("zone", name).
			Build()
	}
	return loc, nil
}

// CurrentTime returns the current wall clock in name.
func (s *Service) CurrentTime(name string) (string, error) {
	loc, err := Load(name)
	if err != nil {
		return "", err
	}
	return s.now().In(loc).Format(DisplayLayout), nil
}

// Convert reinterprets t's wall clock as a time in from and returns the same
// instant in to. t's own location is ignored.
func Convert(t time.Time, from, to string) (time.Time, error) {
	fromLoc, err := Load(from)
	if err != nil {
		return time.Time{}, err
	}
	toLoc, err := Load(to)
	if err != nil {
		return time.Time{}, err
	}
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), fromLoc)
	return wall.In(toLoc), nil
}

// Info describes name at the current instant.
func (s *Service) Info(name string) (Info, error) {
	loc, err := Load(name)
	if err != nil {
		return Info{}, err
	}
	now := s.now().In(loc)
	return Info{
		Name:        loc.String(),
		UTCOffset:   now.Format("-0700"),
		DSTActive:   now.IsDST(),
		CurrentTime: now.Format(DisplayLayout),
	}, nil
}
