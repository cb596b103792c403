package holiday

import (
	"embed"
	"fmt"
	"io/fs"
	"math"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tphakala/calendar-go/internal/errors"
)

//go:embed data/*.yaml
var dataFS embed.FS

// RuleKind selects how a rule produces its date for a year.
type RuleKind string

const (
	KindFixed     RuleKind = "fixed"      // month/day
	KindEaster    RuleKind = "easter"     // offset in days from Western Easter Sunday
	KindTable     RuleKind = "table"      // explicit per-year dates
	KindLunar     RuleKind = "lunar"      // month/day of the Chinese lunisolar calendar
	KindSolarTerm RuleKind = "solar_term" // day the Sun reaches longitude, China time
)

// Rule describes one holiday of a country.
type Rule struct {
	Name      string         `yaml:"name"`
	Kind      RuleKind       `yaml:"kind"`
	Month     int            `yaml:"month"`
	Day       int            `yaml:"day"`
	Offset    int            `yaml:"offset"`
	Longitude float64        `yaml:"longitude"`
	Dates     map[int]string `yaml:"dates"`
	Days      int            `yaml:"days"`
	From      int            `yaml:"from"`
	Until     int            `yaml:"until"`
	Regions   []string       `yaml:"regions"`

	table map[int]time.Time // year to month/day, parsed from Dates
}

// Country is one entry of the embedded dataset.
type Country struct {
	Code    string   `yaml:"code"`
	Name    string   `yaml:"name"`
	Regions []string `yaml:"regions"`
	Rules   []Rule   `yaml:"holidays"`
}

// HasRegion reports whether region is a known subdivision of c.
func (c *Country) HasRegion(region string) bool {
	return slices.Contains(c.Regions, region)
}

func (r *Rule) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("rule without name")
	}
	if r.Days < 0 {
		return fmt.Errorf("%s: negative days", r.Name)
	}
	if r.Days == 0 {
		r.Days = 1
	}

	switch r.Kind {
	case KindFixed:
		if r.Month < 1 || r.Month > 12 || r.Day < 1 || r.Day > 31 {
			return fmt.Errorf("%s: invalid month/day %d/%d", r.Name, r.Month, r.Day)
		}
		return nil
	case KindLunar:
		if r.Month < 1 || r.Month > 12 || r.Day < 1 || r.Day > 30 {
			return fmt.Errorf("%s: invalid lunar month/day %d/%d", r.Name, r.Month, r.Day)
		}
		return nil
	case KindSolarTerm:
		if r.Longitude < 0 || r.Longitude >= 360 || math.Mod(r.Longitude, 15) != 0 {
			return fmt.Errorf("%s: longitude %v is not a solar term", r.Name, r.Longitude)
		}
		return nil
	case KindEaster:
		return nil
	case KindTable:
		if len(r.Dates) == 0 {
			return fmt.Errorf("%s: table rule without dates", r.Name)
		}
		r.table = make(map[int]time.Time, len(r.Dates))
		for year, md := range r.Dates {
			t, err := time.Parse("2006-01-02", fmt.Sprintf("%04d-%s", year, md))
			if err != nil {
				return fmt.Errorf("%s: bad date %q for %d: %w", r.Name, md, year, err)
			}
			r.table[year] = t
		}
		return nil
	default:
		return fmt.Errorf("%s: unknown kind %q", r.Name, r.Kind)
	}
}

func (r *Rule) activeIn(year int) bool {
	if r.From != 0 && year < r.From {
		return false
	}
	if r.Until != 0 && year > r.Until {
		return false
	}
	return true
}

// appliesTo reports whether r holds in region. Rules without regions are
// nationwide; regional rules never apply when no region is selected.
func (r *Rule) appliesTo(region string) bool {
	if len(r.Regions) == 0 {
		return true
	}
	return region != "" && slices.Contains(r.Regions, region)
}

func parseCountry(name string, data []byte) (*Country, error) {
	var c Country
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" {
		return nil, fmt.Errorf("%s: missing country code", name)
	}
	for i := range c.Rules {
		if err := c.Rules[i].validate(); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// loadDataset parses every embedded country file, keyed by upper-case code.
func loadDataset(fsys fs.FS) (map[string]*Country, error) {
	entries, err := fs.ReadDir(fsys, "data")
	if err != nil {
		return nil, errors.New(err).
			Component("holiday").
			Category(errors.CategoryHolidayData).
			Build()
	}

	countries := make(map[string]*Country, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join("data", entry.Name()))
		if err == nil {
			var c *Country
			if c, err = parseCountry(entry.Name(), data); err == nil {
				countries[c.Code] = c
				continue
			}
		}
		return nil, errors.New(err).
			Component("holiday").
			Category(errors.CategoryHolidayData).
			Context("file", entry.Name()).
			Build()
	}
	return countries, nil
}

// embeddedDataset is parsed once per process.
var embeddedDataset = sync.OnceValues(func() (map[string]*Country, error) {
	return loadDataset(dataFS)
})
