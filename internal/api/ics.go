package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/labstack/echo/v4"
	"github.com/teambition/rrule-go"

	"github.com/tphakala/calendar-go/internal/datastore"
	"github.com/tphakala/calendar-go/internal/datastore/entities"
	"github.com/tphakala/calendar-go/internal/logger"
)

const icsProductID = "-//calendar-go//Calendar Export//EN"

// recurrenceRule turns a recurrence tag into an RRULE value. Plain tags
// such as "weekly" map to a frequency; full rules ("FREQ=MONTHLY;COUNT=3")
// are validated and normalised.
func recurrenceRule(tag string) (string, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", false
	}
	if strings.Contains(tag, "=") {
		opt, err := rrule.StrToROption(strings.TrimPrefix(strings.ToUpper(tag), "RRULE:"))
		if err != nil {
			return "", false
		}
		return opt.RRuleString(), true
	}
	freq, err := rrule.StrToFreq(strings.ToUpper(tag))
	if err != nil {
		return "", false
	}
	opt := rrule.ROption{Freq: freq}
	return opt.RRuleString(), true
}

// exportWindow returns the range selected by the year and optional month
// query; with no year the current year is exported.
func exportWindow(ctx echo.Context, now time.Time) (time.Time, time.Time, bool) {
	yearStr, monthStr := ctx.QueryParam("year"), ctx.QueryParam("month")
	if yearStr == "" {
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0).Add(-time.Millisecond), true
	}
	if monthStr == "" {
		year, _, ok := parseYearMonth(yearStr, "1")
		if !ok {
			return time.Time{}, time.Time{}, false
		}
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0).Add(-time.Millisecond), true
	}
	year, month, ok := parseYearMonth(yearStr, monthStr)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start, end := datastore.MonthBounds(year, month)
	return start, end, true
}

// buildCalendar renders events as a VCALENDAR.
func buildCalendar(events []entities.Event, host string, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetProductId(icsProductID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName("calendar-go")

	for i := range events {
		e := &events[i]
		vevent := cal.AddEvent(fmt.Sprintf("event-%d@%s", e.ID, host))
		vevent.SetDtStampTime(stamp)
		vevent.SetCreatedTime(e.CreatedAt)
		vevent.SetModifiedAt(e.UpdatedAt)
		vevent.SetStartAt(e.StartTime)
		vevent.SetEndAt(e.EffectiveEnd())
		vevent.SetSummary(e.Title)
		if e.Description != "" {
			vevent.SetDescription(e.Description)
		}
		if e.Category != "" {
			vevent.AddCategory(e.Category)
		}
		if e.Recurrence != nil {
			if rule, ok := recurrenceRule(*e.Recurrence); ok {
				vevent.AddRrule(rule)
			}
		}
	}
	return cal
}

// ExportEvents handles GET /api/events.ics
func (c *Controller) ExportEvents(ctx echo.Context) error {
	now := time.Now().UTC()
	start, end, ok := exportWindow(ctx, now)
	if !ok {
		return c.HandleError(ctx, nil, "Invalid year or month", http.StatusBadRequest)
	}

	res := c.store.GetEvents(ctx.Request().Context(), &start, &end)
	if !res.OK() {
		return handleResult(c, ctx, res, "Events not found", "Failed to load events", http.StatusInternalServerError)
	}

	host := ctx.Request().Host
	if host == "" {
		host = "calendar-go"
	}
	cal := buildCalendar(res.Value, host, now)

	c.log.Debug("exporting events",
		logger.Int("count", len(res.Value)),
		logger.Time("from", start),
		logger.Time("to", end))

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="calendar.ics"`)
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}
