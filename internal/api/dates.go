package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/tphakala/calendar-go/internal/errors"
)

// DateLayout is the bare date accepted and returned by the API.
const DateLayout = "2006-01-02"

// isoLayout renders timestamps without zone, microsecond precision.
const isoLayout = "2006-01-02T15:04:05.999999"

// naiveLayouts are tried in order for timestamps without offset.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// parseDateTime accepts YYYY-MM-DD or an ISO-8601 timestamp. A trailing Z
// is dropped and the wall clock taken as UTC; explicit offsets are
// converted to UTC.
func parseDateTime(value string) (time.Time, error) {
	t, err := parseTimestamp(value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseDate parses a calendar day, ignoring any time component. The day is
// the one written in the value, before any offset is applied.
func parseDate(value string) (time.Time, error) {
	t, err := parseTimestamp(value)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// parseTimestamp parses value keeping any explicit offset as its zone.
func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.ValidationError("date is required")
	}
	if !strings.Contains(value, "T") {
		t, err := time.Parse(DateLayout, value)
		if err != nil {
			return time.Time{}, invalidDate(value)
		}
		return t, nil
	}

	value = strings.TrimSuffix(value, "Z")
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Time{}, invalidDate(value)
}

func invalidDate(value string) error {
	return errors.New(errors.NewStd("Invalid date format")).
		Component("api").
		Category(errors.CategoryValidation).
		Context("value", value).
		Build()
}

func formatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// parseYearMonth validates the year and month query parameters.
func parseYearMonth(yearStr, monthStr string) (int, time.Month, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil || year < 1 || year > 9999 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(monthStr))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}

// parseID parses a positive numeric path id.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
