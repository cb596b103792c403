package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/calendar-go/internal/tz"
)

func (c *Controller) initTimezoneRoutes() {
	c.Group.GET("/timezones", c.GetTimezones)
	c.Group.GET("/timezones/convert", c.ConvertTime)
	// zone names contain slashes, so the rest of the path is the name
	c.Group.GET("/timezones/*", c.GetTimezoneInfo)
}

// GetTimezones handles GET /api/timezones
func (c *Controller) GetTimezones(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, tz.Available())
}

// GetTimezoneInfo handles GET /api/timezones/:name
func (c *Controller) GetTimezoneInfo(ctx echo.Context) error {
	name, err := url.PathUnescape(ctx.Param("*"))
	if err != nil || strings.TrimSpace(name) == "" {
		return c.HandleError(ctx, err, "Timezone name required", http.StatusBadRequest)
	}
	info, err := c.zones.Info(name)
	if err != nil {
		return c.HandleError(ctx, err, "Unknown timezone", http.StatusNotFound)
	}
	return ctx.JSON(http.StatusOK, info)
}

// ConvertTime handles GET /api/timezones/convert?time&from&to
func (c *Controller) ConvertTime(ctx echo.Context) error {
	raw, from, to := ctx.QueryParam("time"), ctx.QueryParam("from"), ctx.QueryParam("to")
	if raw == "" || from == "" || to == "" {
		return c.HandleError(ctx, nil, "Missing time or zone parameter", http.StatusBadRequest)
	}
	t, err := parseDateTime(raw)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid date format", http.StatusBadRequest)
	}
	converted, err := tz.Convert(t, from, to)
	if err != nil {
		return c.HandleError(ctx, err, "Unknown timezone", http.StatusBadRequest)
	}
	return ctx.JSON(http.StatusOK, map[string]string{
		"from":      from,
		"to":        to,
		"input":     t.Format(isoLayout),
		"converted": converted.Format("2006-01-02T15:04:05.999999-07:00"),
	})
}
