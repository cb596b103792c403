package holiday

import (
	"sort"
	"time"
)

// Holiday is one dated entry. Date is midnight UTC.
type Holiday struct {
	Date     time.Time `json:"date"`
	Name     string    `json:"name"`
	Country  string    `json:"country"`
	Observed bool      `json:"observed,omitempty"`
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// easterSunday returns Western Easter for year (anonymous Gregorian algorithm).
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	dd := (h+l-7*m+114)%31 + 1
	return day(year, time.Month(month), dd)
}

// date resolves the first day of r in year. ok is false when r has no
// date that year, either by its own definition or because the dataset
// cannot place it.
func (r *Rule) date(year int) (time.Time, bool) {
	switch r.Kind {
	case KindFixed:
		t := day(year, time.Month(r.Month), r.Day)
		// Feb 30 and friends roll over and are dropped
		return t, t.Day() == r.Day
	case KindEaster:
		return easterSunday(year).AddDate(0, 0, r.Offset), true
	case KindTable:
		t, ok := r.table[year]
		return t, ok
	case KindLunar:
		return lunarDate(year, r.Month, r.Day)
	case KindSolarTerm:
		return solarTermDate(year, r.Longitude)
	}
	return time.Time{}, false
}

// covers reports whether the dataset can date r in year. Fixed dates
// that do not exist (Feb 29 in common years) are covered.
func (r *Rule) covers(year int) bool {
	switch r.Kind {
	case KindTable:
		_, ok := r.table[year]
		return ok
	case KindLunar, KindSolarTerm:
		return year >= minLunarYear && year <= maxLunarYear
	}
	return true
}

// Holidays returns the holidays of c dated in year, ordered by date.
// Multi-day rules that start in the previous year are included.
func (c *Country) Holidays(year int, region string) []Holiday {
	var out []Holiday
	for y := year - 1; y <= year; y++ {
		for i := range c.Rules {
			r := &c.Rules[i]
			if !r.activeIn(y) || !r.appliesTo(region) {
				continue
			}
			start, ok := r.date(y)
			if !ok {
				continue
			}
			for n := range r.Days {
				if d := start.AddDate(0, 0, n); d.Year() == year {
					out = append(out, Holiday{Date: d, Name: r.Name, Country: c.Code})
				}
			}
		}
	}
	sortByDate(out)
	return out
}

// Gaps names the rules of c that hold in year but that the dataset cannot
// date, such as a table that ends before year.
func (c *Country) Gaps(year int, region string) []string {
	var names []string
	for i := range c.Rules {
		r := &c.Rules[i]
		if r.activeIn(year) && r.appliesTo(region) && !r.covers(year) {
			names = append(names, r.Name)
		}
	}
	return names
}

// sortByDate orders holidays by date, keeping the relative order of
// entries on the same day.
func sortByDate(hs []Holiday) {
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].Date.Before(hs[j].Date) })
}
