package settings

import (
	"maps"
	"slices"
	"strconv"
)

// Kind is the type a stored setting string is interpreted as.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return "string"
	}
}

// Setting keys with compiled-in defaults.
const (
	KeyTimezone         = "timezone"
	KeyHolidayCountries = "holiday_countries"
	KeyTheme            = "theme"
	KeyCalendarView     = "calendar_view"
	KeyWeekStart        = "week_start"
	KeyDateFormat       = "date_format"
	KeyTimeFormat       = "time_format"
	KeyAutoSaveNotes    = "auto_save_notes"
	KeyShowWeekends     = "show_weekends"
	KeyShowHolidays     = "show_holidays"
)

// Default is one entry of the default table.
type Default struct {
	Value string
	Kind  Kind
}

var defaults = map[string]Default{
	KeyTimezone:         {Value: "UTC", Kind: KindString},
	KeyHolidayCountries: {Value: "US,DE,CN", Kind: KindString},
	KeyTheme:            {Value: "light", Kind: KindString},
	KeyCalendarView:     {Value: "month", Kind: KindString},
	KeyWeekStart:        {Value: "monday", Kind: KindString},
	KeyDateFormat:       {Value: "YYYY-MM-DD", Kind: KindString},
	KeyTimeFormat:       {Value: "24h", Kind: KindString},
	KeyAutoSaveNotes:    {Value: strconv.FormatBool(true), Kind: KindBool},
	KeyShowWeekends:     {Value: strconv.FormatBool(true), Kind: KindBool},
	KeyShowHolidays:     {Value: strconv.FormatBool(true), Kind: KindBool},
}

// Defaults returns a copy of the default table.
func Defaults() map[string]Default {
	return maps.Clone(defaults)
}

// Keys returns the default keys in sorted order.
func Keys() []string {
	return slices.Sorted(maps.Keys(defaults))
}

// IsKnown reports whether key has a compiled-in default.
func IsKnown(key string) bool {
	_, ok := defaults[key]
	return ok
}
