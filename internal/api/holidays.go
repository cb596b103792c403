package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// CountryInfo describes a supported holiday country.
type CountryInfo struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Subdivision string `json:"subdivision,omitempty"`
	Selected    bool   `json:"selected"`
}

func (c *Controller) initHolidayRoutes() {
	c.Group.GET("/holidays", c.GetHolidays)
	c.Group.GET("/holidays/countries", c.GetHolidayCountries)
}

// countriesParam collects codes from repeated or comma separated
// countries parameters.
func countriesParam(ctx echo.Context) []string {
	var codes []string
	for _, v := range ctx.QueryParams()["countries"] {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				codes = append(codes, part)
			}
		}
	}
	return codes
}

// GetHolidays handles GET /api/holidays?year&month&countries
// With no month the whole year is returned; with no countries the stored
// holiday_countries setting is used.
func (c *Controller) GetHolidays(ctx echo.Context) error {
	yearStr := ctx.QueryParam("year")
	if yearStr == "" {
		yearStr = strconv.Itoa(time.Now().Year())
	}
	monthStr := ctx.QueryParam("month")

	codes := countriesParam(ctx)
	if len(codes) == 0 {
		codes = c.settings.HolidayCountries(ctx.Request().Context())
	}

	if monthStr == "" {
		year, _, ok := parseYearMonth(yearStr, "1")
		if !ok {
			return c.HandleError(ctx, nil, "Invalid year", http.StatusBadRequest)
		}
		return ctx.JSON(http.StatusOK, c.holidays.ForYear(year, codes))
	}

	year, month, ok := parseYearMonth(yearStr, monthStr)
	if !ok {
		return c.HandleError(ctx, nil, "Invalid year or month", http.StatusBadRequest)
	}
	return ctx.JSON(http.StatusOK, c.holidays.ForMonth(year, month, codes))
}

// GetHolidayCountries handles GET /api/holidays/countries
func (c *Controller) GetHolidayCountries(ctx echo.Context) error {
	selected := make(map[string]bool)
	for _, code := range c.settings.HolidayCountries(ctx.Request().Context()) {
		selected[code] = true
	}

	codes := c.holidays.SupportedCountries()
	out := make([]CountryInfo, 0, len(codes))
	for _, code := range codes {
		out = append(out, CountryInfo{
			Code:        code,
			Name:        c.holidays.CountryName(code),
			Subdivision: c.holidays.Subdivision(code),
			Selected:    selected[code],
		})
	}
	return ctx.JSON(http.StatusOK, map[string]any{"countries": out})
}
