package holiday

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var regionNamer = display.English.Regions()

// displayName returns the English name of an ISO 3166-1 region code, or
// fallback when x/text does not know it.
func displayName(code, fallback string) string {
	region, err := language.ParseRegion(code)
	if err != nil {
		return fallback
	}
	if name := regionNamer.Name(region); name != "" {
		return name
	}
	return fallback
}
