package holiday

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tphakala/calendar-go/internal/observability/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// go-cache starts a janitor per cache that only stops on GC
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	s, err := NewService(opts...)
	require.NoError(t, err)
	return s
}

func TestService_SupportedCountries(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	assert.Equal(t, []string{"US", "DE", "CN", "GB", "CA", "FR", "JP", "AU", "IN"}, s.SupportedCountries())
	assert.True(t, s.IsSupported("us"))
	assert.False(t, s.IsSupported("XX"))

	names := map[string]string{
		"US": "United States",
		"DE": "Germany",
		"GB": "United Kingdom",
		"JP": "Japan",
		"in": "India",
	}
	for code, want := range names {
		assert.Equal(t, want, s.CountryName(code))
	}
	assert.Equal(t, "XX", s.CountryName("XX"))
}

// assertLabels checks that date carries one label per prefix, in order.
func assertLabels(t *testing.T, got map[string][]string, date string, prefixes ...string) {
	t.Helper()
	require.Len(t, got[date], len(prefixes), date)
	for i, prefix := range prefixes {
		assert.True(t, strings.HasPrefix(got[date][i], prefix), "%s: %q lacks %q", date, got[date][i], prefix)
	}
}

func TestService_ForMonth_US(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	nov := s.ForMonth(2024, time.November, []string{"US"})
	assert.Len(t, nov, 2)
	assertLabels(t, nov, "2024-11-11", "United States: ")
	assertLabels(t, nov, "2024-11-28", "United States: ")

	// July 4th 2021 was a Sunday
	jul := s.ForMonth(2021, time.July, []string{"US"})
	assertLabels(t, jul, "2021-07-04", "United States: ")
	assertLabels(t, jul, "2021-07-05", "United States: ")
	assert.True(t, strings.HasSuffix(jul["2021-07-05"][0], " (observed)"))
	assert.Equal(t, jul["2021-07-04"][0]+" (observed)", jul["2021-07-05"][0])

	// New Year 2022 fell on Saturday and is observed in 2021
	dec := s.ForMonth(2021, time.December, []string{"US"})
	assert.Contains(t, dec, "2021-12-31")
	assert.Contains(t, dec, "2021-12-24")
	jan := s.ForMonth(2022, time.January, []string{"US"})
	assert.Contains(t, jan, "2022-01-01")
	assert.NotContains(t, jan, "2022-01-03")

	assert.Contains(t, s.ForMonth(2024, time.June, []string{"US"}), "2024-06-19")
}

func TestService_MultipleCountries(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	dec := s.ForMonth(2024, time.December, []string{"US", "xx", "de", "US"})
	assertLabels(t, dec, "2024-12-25", "United States: ", "Germany: ")
	assertLabels(t, dec, "2024-12-26", "Germany: ")
	assert.Len(t, dec, 2)

	assert.Empty(t, s.ForMonth(2024, time.December, []string{"XX"}))
	assert.Empty(t, s.ForMonth(2024, time.December, nil))
}

func TestService_GermanSubdivision(t *testing.T) {
	t.Parallel()

	bw := newTestService(t)
	assert.Equal(t, "BW", bw.Subdivision("DE"))
	year := bw.ForYear(2024, []string{"DE"})
	for _, date := range []string{"2024-01-01", "2024-01-06", "2024-03-29", "2024-04-01", "2024-05-01", "2024-05-09", "2024-05-20", "2024-05-30", "2024-10-03", "2024-11-01", "2024-12-25", "2024-12-26"} {
		assert.Contains(t, year, date)
	}
	assert.NotContains(t, year, "2024-10-31")
	for date, labels := range year {
		assert.Len(t, labels, 1, "regional list repeats a national holiday on %s", date)
	}

	national := newTestService(t, WithSubdivisions(map[string]string{}))
	year = national.ForYear(2024, []string{"DE"})
	assert.NotContains(t, year, "2024-01-06")
	assert.NotContains(t, year, "2024-05-30")
	assert.Contains(t, year, "2024-10-03")

	saxony := newTestService(t, WithSubdivisions(map[string]string{"de": "sn"}))
	name, ok := saxony.HolidayName(time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC), "DE")
	require.True(t, ok, "Repentance and Prayer Day")
	assert.NotEmpty(t, name)
	_, ok = bw.HolidayName(time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC), "DE")
	assert.False(t, ok)

	unknown := newTestService(t, WithSubdivisions(map[string]string{"DE": "ZZ"}))
	assert.Empty(t, unknown.Subdivision("DE"))
}

func TestService_ObservedDays(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	// Christmas 2022 on Sunday, Boxing Day on Monday
	gb := s.ForMonth(2022, time.December, []string{"GB"})
	assert.Contains(t, gb, "2022-12-26")
	assert.Contains(t, gb, "2022-12-27")

	// both on the weekend in 2021
	gb = s.ForMonth(2021, time.December, []string{"GB"})
	for _, date := range []string{"2021-12-27", "2021-12-28"} {
		require.Contains(t, gb, date)
		assert.True(t, strings.HasSuffix(gb[date][0], " (observed)"), date)
	}

	jp := s.ForMonth(2024, time.September, []string{"JP"})
	assert.Contains(t, jp, "2024-09-16")
	assert.Contains(t, jp, "2024-09-22")
}

func TestService_LibraryCountries(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	tests := map[string][]string{
		"AU": {"2024-01-01", "2024-01-26", "2024-03-29", "2024-04-25", "2024-12-25"},
		"CA": {"2024-01-01", "2024-07-01", "2024-12-25"},
		"FR": {"2024-01-01", "2024-05-08", "2024-07-14", "2024-08-15", "2024-11-11", "2024-12-25"},
		"GB": {"2024-01-01", "2024-03-29", "2024-04-01", "2024-12-25", "2024-12-26"},
		"JP": {"2024-01-01", "2024-02-11", "2024-05-03", "2024-11-03"},
	}
	for code, dates := range tests {
		year := s.ForYear(2024, []string{code})
		for _, date := range dates {
			assertLabels(t, year, date, s.CountryName(code)+": ")
		}
		assert.Empty(t, s.Gaps(2024, []string{code}))
		assert.Empty(t, s.Gaps(1850, []string{code}))
	}
}

func TestService_ChinaComputed(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	cn := s.ForMonth(2024, time.February, []string{"CN"})
	for _, date := range []string{"2024-02-10", "2024-02-11", "2024-02-12"} {
		assert.Equal(t, []string{"China: Spring Festival"}, cn[date])
	}
	assert.Len(t, s.ForMonth(2024, time.October, []string{"CN"}), 3)

	year := s.ForYear(2031, []string{"CN"})
	for date, want := range map[string]string{
		"2031-01-23": "China: Spring Festival",
		"2031-01-25": "China: Spring Festival",
		"2031-04-05": "China: Tomb-Sweeping Day",
		"2031-06-24": "China: Dragon Boat Festival",
	} {
		assert.Equal(t, []string{want}, year[date], date)
	}
	// Mid-Autumn meets National Day
	assert.Equal(t, []string{"China: Mid-Autumn Festival", "China: National Day"}, year["2031-10-01"])
	assert.Len(t, year, 10)
	assert.Empty(t, s.Gaps(2031, []string{"CN"}))

	year = s.ForYear(1950, []string{"CN"})
	assert.Contains(t, year, "1950-02-17")
}

type errorRecorder struct {
	nopRecorder
	mu     sync.Mutex
	errors []string
}

func (r *errorRecorder) RecordError(operation, errorType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, operation+"/"+errorType)
}

func TestService_DataGaps(t *testing.T) {
	t.Parallel()

	rec := &errorRecorder{}
	s := newTestService(t, WithMetrics(rec))

	in := s.ForYear(2019, []string{"IN"})
	assert.Equal(t, []string{"India: Holi"}, in["2019-03-21"])
	assert.Equal(t, []string{"India: Diwali"}, in["2019-10-27"])
	assert.Empty(t, s.Gaps(2019, []string{"IN"}))

	// past the gazetted tables the fixed holidays remain and the rest is reported
	in = s.ForYear(2035, []string{"IN"})
	assert.Contains(t, in, "2035-01-26")
	assert.Contains(t, in, "2035-08-15")
	assert.Equal(t, []Gap{
		{Country: "IN", Name: "Holi", Year: 2035},
		{Country: "IN", Name: "Diwali", Year: 2035},
	}, s.Gaps(2035, []string{"in", "US"}))

	gaps := s.Gaps(2100, []string{"CN"})
	require.Len(t, gaps, 4)
	assert.Equal(t, "Spring Festival", gaps[0].Name)
	// fixed holidays are still served
	assert.Len(t, s.ForYear(2100, []string{"CN"}), 5)

	gap := metrics.OpHolidayCompute + "/data_gap"
	assert.Equal(t, []string{gap, gap}, rec.errors)
}

func TestService_IsHolidayAndName(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	assert.True(t, s.IsHoliday(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC), []string{"US"}))
	assert.True(t, s.IsHoliday(time.Date(2024, 7, 4, 23, 30, 0, 0, time.UTC), []string{"DE", "US"}))
	assert.False(t, s.IsHoliday(time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC), []string{"US"}))
	assert.False(t, s.IsHoliday(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC), []string{"XX"}))
	// the calendar date is taken in the value's own zone
	assert.True(t, s.IsHoliday(time.Date(2024, 10, 3, 0, 30, 0, 0, berlin), []string{"DE"}))

	name, ok := s.HolidayName(time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), "fr")
	require.True(t, ok)
	assert.NotEmpty(t, name)

	name, ok = s.HolidayName(time.Date(2031, 10, 1, 0, 0, 0, 0, time.UTC), "CN")
	require.True(t, ok)
	assert.Equal(t, "Mid-Autumn Festival; National Day", name)

	_, ok = s.HolidayName(time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC), "FR")
	assert.False(t, ok)
	_, ok = s.HolidayName(time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), "XX")
	assert.False(t, ok)
}

func TestService_CacheAndMetrics(t *testing.T) {
	t.Parallel()

	m, err := metrics.NewHolidayMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	s := newTestService(t, WithMetrics(m), WithCacheTTL(time.Hour))

	first := s.ForYear(2024, []string{"US"})
	assert.Equal(t, 1, s.CacheSize())
	second := s.ForYear(2024, []string{"US"})
	assert.Equal(t, first, second)
	assert.Equal(t, 1, s.CacheSize())

	require.NoError(t, s.Warm(t.Context(), 2024, 2025))
	assert.Equal(t, 2*len(supported), s.CacheSize())

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.ErrorIs(t, s.Warm(ctx, 2026), context.Canceled)
}

func TestService_ConcurrentLookups(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	want := s.ForYear(2030, []string{"US", "DE", "JP"})

	var wg sync.WaitGroup
	results := make([]map[string][]string, 16)
	for i := range results {
		wg.Go(func() {
			results[i] = s.ForYear(2030, []string{"US", "DE", "JP"})
		})
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
