// Package holiday answers public holiday queries for a fixed set of
// countries. Western countries come from the rickar/cal catalogue; China
// and India from an embedded rule dataset with lunisolar support.
package holiday

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/tphakala/calendar-go/internal/errors"
	"github.com/tphakala/calendar-go/internal/logger"
	"github.com/tphakala/calendar-go/internal/observability/metrics"
)

// DateLayout is the key format of ForYear and ForMonth results.
const DateLayout = "2006-01-02"

// DefaultCacheTTL is used when no TTL is configured.
const DefaultCacheTTL = 24 * time.Hour

// supported lists the country codes in presentation order.
var supported = []string{"US", "DE", "CN", "GB", "CA", "FR", "JP", "AU", "IN"}

// calendar produces the holidays of one country.
type calendar interface {
	Holidays(year int, region string) []Holiday
	Gaps(year int, region string) []string
	HasRegion(region string) bool
}

// Gap is a holiday that holds in a year the data cannot date.
type Gap struct {
	Country string `json:"country"`
	Name    string `json:"name"`
	Year    int    `json:"year"`
}

// Recorder receives holiday metrics.
type Recorder interface {
	metrics.Recorder
	RecordCacheLookup(hit bool)
	UpdateCacheSize(entries int)
}

type nopRecorder struct{ metrics.NopRecorder }

func (nopRecorder) RecordCacheLookup(bool) {}
func (nopRecorder) UpdateCacheSize(int)    {}

// Service computes and caches holidays per country and year.
type Service struct {
	countries    map[string]calendar
	names        map[string]string
	subdivisions map[string]string
	cache        *cache.Cache
	group        singleflight.Group
	rec          Recorder
	log          logger.Logger
}

// Option configures a Service.
type Option func(*serviceConfig)

type serviceConfig struct {
	ttl          time.Duration
	subdivisions map[string]string
	rec          Recorder
	log          logger.Logger
}

// WithCacheTTL sets how long a computed country year stays cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *serviceConfig) { c.ttl = ttl }
}

// WithSubdivisions selects a subdivision per country code, e.g. DE: BW.
func WithSubdivisions(subdivisions map[string]string) Option {
	return func(c *serviceConfig) { c.subdivisions = subdivisions }
}

// WithMetrics records lookups and cache behaviour.
func WithMetrics(rec Recorder) Option {
	return func(c *serviceConfig) { c.rec = rec }
}

// WithLogger sets the logger; the service logs under the "holiday" module.
func WithLogger(log logger.Logger) Option {
	return func(c *serviceConfig) { c.log = log }
}

// NewService loads the embedded dataset and returns a ready service.
func NewService(opts ...Option) (*Service, error) {
	cfg := serviceConfig{
		ttl:          DefaultCacheTTL,
		subdivisions: map[string]string{"DE": "BW"},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ttl <= 0 {
		cfg.ttl = DefaultCacheTTL
	}
	if cfg.rec == nil {
		cfg.rec = nopRecorder{}
	}
	if cfg.log == nil {
		cfg.log = logger.NewNopLogger()
	}
	log := cfg.log.Module("holiday")

	dataset, err := embeddedDataset()
	if err != nil {
		return nil, err
	}
	countries := make(map[string]calendar, len(supported))
	names := make(map[string]string, len(supported))
	for _, c := range libraryCountries() {
		countries[c.code] = c
		names[c.code] = displayName(c.code, c.name)
	}
	for code, c := range dataset {
		if _, ok := countries[code]; !ok {
			countries[code] = c
			names[code] = displayName(code, c.Name)
		}
	}
	for _, code := range supported {
		if _, ok := countries[code]; !ok {
			return nil, errors.Newf("no holiday source for %s", code).
				Component("holiday").
				Category(errors.CategoryHolidayData).
				Build()
		}
	}

	subdivisions := make(map[string]string, len(cfg.subdivisions))
	for code, region := range cfg.subdivisions {
		code = strings.ToUpper(strings.TrimSpace(code))
		region = strings.ToUpper(strings.TrimSpace(region))
		c, ok := countries[code]
		if !ok || region == "" {
			continue
		}
		if !c.HasRegion(region) {
			log.Warn("unknown subdivision ignored",
				logger.String("country", code),
				logger.String("subdivision", region))
			continue
		}
		subdivisions[code] = region
	}

	log.Debug("holiday dataset loaded",
		logger.Int("countries", len(countries)),
		logger.Duration("cache_ttl", cfg.ttl))

	return &Service{
		countries:    countries,
		names:        names,
		subdivisions: subdivisions,
		cache:        cache.New(cfg.ttl, cfg.ttl*2),
		rec:          cfg.rec,
		log:          log,
	}, nil
}

// SupportedCountries returns the supported ISO country codes.
func (s *Service) SupportedCountries() []string {
	return append([]string(nil), supported...)
}

// IsSupported reports whether code names a supported country.
func (s *Service) IsSupported(code string) bool {
	_, ok := s.countries[normalizeCode(code)]
	return ok
}

// CountryName returns the English name for code, or code itself when the
// country is unknown.
func (s *Service) CountryName(code string) string {
	if name, ok := s.names[normalizeCode(code)]; ok {
		return name
	}
	return code
}

// Subdivision returns the subdivision used for code, if any.
func (s *Service) Subdivision(code string) string {
	return s.subdivisions[normalizeCode(code)]
}

// Label formats a holiday as "<Country Name>: <Holiday>".
func (s *Service) Label(h Holiday) string {
	return s.CountryName(h.Country) + ": " + h.Name
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// resolve normalises codes, dropping unknown and repeated ones.
func (s *Service) resolve(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		code = normalizeCode(code)
		if _, ok := s.countries[code]; !ok || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}

func cacheKey(code, region string, year int) string {
	return fmt.Sprintf("%s:%s:%d", code, region, year)
}

// countryYear returns the cached holidays of one country for year.
func (s *Service) countryYear(code string, year int) []Holiday {
	region := s.subdivisions[code]
	key := cacheKey(code, region, year)

	if cached, found := s.cache.Get(key); found {
		if holidays, ok := cached.([]Holiday); ok {
			s.rec.RecordCacheLookup(true)
			return holidays
		}
	}
	s.rec.RecordCacheLookup(false)

	v, _, _ := s.group.Do(key, func() (any, error) {
		start := time.Now()
		c := s.countries[code]
		holidays := c.Holidays(year, region)
		s.rec.RecordDuration(metrics.OpHolidayCompute, time.Since(start).Seconds())
		if gaps := c.Gaps(year, region); len(gaps) > 0 {
			s.rec.RecordError(metrics.OpHolidayCompute, "data_gap")
			s.log.Warn("holiday data does not cover year",
				logger.String("country", code),
				logger.Int("year", year),
				logger.Any("holidays", gaps))
		}
		s.cache.Set(key, holidays, cache.DefaultExpiration)
		s.rec.UpdateCacheSize(s.cache.ItemCount())
		return holidays, nil
	})
	return v.([]Holiday)
}

// Lookup returns the holidays of year for codes, ordered by date and then
// by the order of codes.
func (s *Service) Lookup(year int, codes []string) []Holiday {
	start := time.Now()
	defer func() {
		s.rec.RecordDuration(metrics.OpHolidayLookup, time.Since(start).Seconds())
		s.rec.RecordOperation(metrics.OpHolidayLookup, metrics.StatusSuccess)
	}()

	var out []Holiday
	for _, code := range s.resolve(codes) {
		out = append(out, s.countryYear(code, year)...)
	}
	sortByDate(out)
	return out
}

// ForYear maps each holiday date of year (YYYY-MM-DD) to its labels.
func (s *Service) ForYear(year int, codes []string) map[string][]string {
	return s.byDate(s.Lookup(year, codes), func(Holiday) bool { return true })
}

// ForMonth is ForYear restricted to month.
func (s *Service) ForMonth(year int, month time.Month, codes []string) map[string][]string {
	return s.byDate(s.Lookup(year, codes), func(h Holiday) bool { return h.Date.Month() == month })
}

func (s *Service) byDate(holidays []Holiday, keep func(Holiday) bool) map[string][]string {
	out := make(map[string][]string)
	for _, h := range holidays {
		if !keep(h) {
			continue
		}
		key := h.Date.Format(DateLayout)
		out[key] = append(out[key], s.Label(h))
	}
	return out
}

// IsHoliday reports whether date's calendar day is a holiday in any of codes.
func (s *Service) IsHoliday(date time.Time, codes []string) bool {
	d := truncateDay(date)
	for _, code := range s.resolve(codes) {
		for _, h := range s.countryYear(code, d.Year()) {
			if h.Date.Equal(d) {
				return true
			}
		}
	}
	return false
}

// HolidayName returns the holiday names of date in country code, joined
// with "; " when a day carries several.
func (s *Service) HolidayName(date time.Time, code string) (string, bool) {
	code = normalizeCode(code)
	if _, ok := s.countries[code]; !ok {
		return "", false
	}
	d := truncateDay(date)
	var names []string
	for _, h := range s.countryYear(code, d.Year()) {
		if h.Date.Equal(d) {
			names = append(names, h.Name)
		}
	}
	if len(names) == 0 {
		return "", false
	}
	return strings.Join(names, "; "), true
}

// Gaps lists the holidays of codes that hold in year but cannot be dated
// there, so results for year are incomplete.
func (s *Service) Gaps(year int, codes []string) []Gap {
	var out []Gap
	for _, code := range s.resolve(codes) {
		for _, name := range s.countries[code].Gaps(year, s.subdivisions[code]) {
			out = append(out, Gap{Country: code, Name: name, Year: year})
		}
	}
	return out
}

// Warm drops expired cache entries and precomputes years for every
// supported country.
func (s *Service) Warm(ctx context.Context, years ...int) error {
	start := time.Now()
	s.cache.DeleteExpired()
	for _, year := range years {
		for _, code := range supported {
			if err := ctx.Err(); err != nil {
				s.rec.RecordError(metrics.OpCacheWarmup, "cancelled")
				return err
			}
			s.countryYear(code, year)
		}
	}
	s.rec.UpdateCacheSize(s.cache.ItemCount())
	s.rec.RecordOperation(metrics.OpCacheWarmup, metrics.StatusSuccess)
	s.log.Debug("holiday cache warmed",
		logger.Any("years", years),
		logger.Int("entries", s.cache.ItemCount()),
		logger.Duration("duration", time.Since(start)))
	return nil
}

// CacheSize returns the number of cached country years.
func (s *Service) CacheSize() int {
	return s.cache.ItemCount()
}

// truncateDay returns midnight UTC of t's calendar date in its own zone.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return day(y, m, d)
}
