package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/calendar-go/internal/errors"
	"github.com/tphakala/calendar-go/internal/logger"
	"github.com/tphakala/calendar-go/internal/settings"
)

// SettingRequest is the body of PUT /api/settings/:key. Value may be any
// JSON scalar; it is stored in its string form.
type SettingRequest struct {
	Value any `json:"value"`
}

// HolidayCountriesRequest is the body of PUT /api/settings/holiday-countries.
type HolidayCountriesRequest struct {
	Countries []string `json:"countries"`
}

func (c *Controller) initSettingsRoutes() {
	c.Group.GET("/settings", c.GetAllSettings)
	c.Group.POST("/settings/reset", c.ResetSettings)
	c.Group.GET("/settings/holiday-countries", c.GetSelectedCountries)
	c.Group.PUT("/settings/holiday-countries", c.SetSelectedCountries)
	c.Group.GET("/settings/:key", c.GetSetting)
	c.Group.PUT("/settings/:key", c.UpdateSetting)
}

// GetAllSettings handles GET /api/settings
func (c *Controller) GetAllSettings(ctx echo.Context) error {
	if ctx.QueryParam("typed") == "true" {
		return ctx.JSON(http.StatusOK, c.settings.GetAllTyped(ctx.Request().Context()))
	}
	return ctx.JSON(http.StatusOK, c.settings.GetAll(ctx.Request().Context()))
}

// GetSetting handles GET /api/settings/:key
func (c *Controller) GetSetting(ctx echo.Context) error {
	key := ctx.Param("key")
	value, ok := c.settings.Resolve(ctx.Request().Context(), key)
	if !ok {
		return c.HandleError(ctx, nil, "Setting not found", http.StatusNotFound)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"key": key, "value": value})
}

// UpdateSetting handles PUT /api/settings/:key
func (c *Controller) UpdateSetting(ctx echo.Context) error {
	key := strings.TrimSpace(ctx.Param("key"))
	if key == "" {
		return c.HandleError(ctx, nil, "Setting key required", http.StatusBadRequest)
	}

	var req SettingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.Value == nil {
		return c.HandleError(ctx, nil, "Value required", http.StatusBadRequest)
	}

	value := settingString(req.Value)
	if key == settings.KeyHolidayCountries {
		return c.storeCountries(ctx, strings.Split(value, ","))
	}
	if err := settings.Validate(key, value); err != nil {
		return c.HandleError(ctx, err, err.Error(), http.StatusBadRequest)
	}
	if !c.settings.Set(ctx.Request().Context(), key, value) {
		return c.HandleError(ctx, nil, "Failed to save setting", http.StatusBadRequest)
	}

	c.log.Info("setting updated", logger.String("key", key))
	return ctx.JSON(http.StatusOK, map[string]any{"success": true, "key": key, "value": value})
}

// settingString renders a decoded JSON value in its stored form.
func settingString(v any) string {
	switch val := v.(type) {
	case float64:
		// JSON numbers decode as float64; whole numbers are stored as ints
		if val == float64(int64(val)) {
			return settings.Stringify(int64(val))
		}
		return settings.Stringify(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ",")
	default:
		return settings.Stringify(val)
	}
}

// ResetSettings handles POST /api/settings/reset
func (c *Controller) ResetSettings(ctx echo.Context) error {
	if !c.settings.ResetToDefaults(ctx.Request().Context()) {
		return c.HandleError(ctx, nil, "Failed to reset settings", http.StatusInternalServerError)
	}
	c.log.Info("settings reset to defaults")
	return ctx.JSON(http.StatusOK, map[string]bool{"success": true})
}

// GetSelectedCountries handles GET /api/settings/holiday-countries
func (c *Controller) GetSelectedCountries(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string][]string{
		"countries": c.settings.HolidayCountries(ctx.Request().Context()),
	})
}

// SetSelectedCountries handles PUT /api/settings/holiday-countries
func (c *Controller) SetSelectedCountries(ctx echo.Context) error {
	var req HolidayCountriesRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	return c.storeCountries(ctx, req.Countries)
}

// storeCountries validates codes against the holiday dataset and stores them.
func (c *Controller) storeCountries(ctx echo.Context, codes []string) error {
	codes = settings.NormalizeCountries(codes)
	for _, code := range codes {
		if !c.holidays.IsSupported(code) {
			msg := fmt.Sprintf("Unsupported country code %q", code)
			return c.HandleError(ctx, errors.ValidationError(msg), msg, http.StatusBadRequest)
		}
	}
	if !c.settings.SetHolidayCountries(ctx.Request().Context(), codes) {
		return c.HandleError(ctx, nil, "Failed to save setting", http.StatusBadRequest)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"success": true, "countries": codes})
}
