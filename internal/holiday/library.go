package holiday

import (
	"slices"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/au"
	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/jp"
	"github.com/rickar/cal/v2/us"
)

// libraryCountry serves a country from the rickar/cal holiday catalogue.
// Holiday names are the catalogue's, which may be in the local language.
type libraryCountry struct {
	code     string
	name     string
	national []*cal.Holiday
	regions  map[string][]*cal.Holiday
}

func libraryCountries() []*libraryCountry {
	return []*libraryCountry{
		{code: "US", name: "United States", national: us.Holidays},
		{code: "DE", name: "Germany", national: de.Holidays, regions: map[string][]*cal.Holiday{
			"BB": de.HolidaysBB,
			"BE": de.HolidaysBE,
			"BW": de.HolidaysBW,
			"BY": de.HolidaysBY,
			"HB": de.HolidaysHB,
			"HE": de.HolidaysHE,
			"HH": de.HolidaysHH,
			"MV": de.HolidaysMV,
			"NI": de.HolidaysNI,
			"NW": de.HolidaysNW,
			"RP": de.HolidaysRP,
			"SH": de.HolidaysSH,
			"SL": de.HolidaysSL,
			"SN": de.HolidaysSN,
			"ST": de.HolidaysST,
			"TH": de.HolidaysTH,
		}},
		{code: "GB", name: "United Kingdom", national: gb.Holidays},
		{code: "CA", name: "Canada", national: ca.Holidays},
		{code: "FR", name: "France", national: fr.Holidays},
		{code: "JP", name: "Japan", national: jp.Holidays},
		{code: "AU", name: "Australia", national: au.Holidays},
	}
}

// HasRegion reports whether region has its own holiday list.
func (c *libraryCountry) HasRegion(region string) bool {
	_, ok := c.regions[region]
	return ok
}

// Gaps is always empty: the catalogue computes every year.
func (c *libraryCountry) Gaps(int, string) []string { return nil }

// Holidays returns the holidays of c dated in year, with a regional list
// merged in when region is set. A holiday observed on another day adds a
// "<name> (observed)" entry, which may fall in a neighbouring year.
func (c *libraryCountry) Holidays(year int, region string) []Holiday {
	list := c.national
	if extra, ok := c.regions[region]; ok {
		list = slices.Concat(list, extra)
	}

	type key struct {
		date time.Time
		name string
	}
	seen := make(map[key]bool)
	var out []Holiday
	add := func(h Holiday) {
		k := key{h.Date, h.Name}
		if h.Date.Year() != year || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, h)
	}

	for y := year - 1; y <= year+1; y++ {
		for _, h := range list {
			actual, observed := h.Calc(y)
			if actual.IsZero() {
				continue
			}
			actual = truncateDay(actual)
			add(Holiday{Date: actual, Name: h.Name, Country: c.code})
			if observed.IsZero() {
				continue
			}
			if o := truncateDay(observed); !o.Equal(actual) {
				add(Holiday{Date: o, Name: h.Name + " (observed)", Country: c.code, Observed: true})
			}
		}
	}
	sortByDate(out)
	return out
}
