package datastore

import "time"

// DayBounds returns the half-open UTC range [midnight, next midnight) that
// contains t. Notes are matched by calendar day through this range so the
// query works the same on SQLite and MySQL.
func DayBounds(t time.Time) (start, end time.Time) {
	u := t.UTC()
	start = time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// MonthBounds returns the first and last instant of the given month in UTC.
// Both bounds are meant to be used inclusively. The end is one millisecond
// before the next month so it survives MySQL DATETIME(3) rounding.
func MonthBounds(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end
}
