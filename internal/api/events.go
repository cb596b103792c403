package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/calendar-go/internal/datastore"
	"github.com/tphakala/calendar-go/internal/datastore/entities"
	"github.com/tphakala/calendar-go/internal/logger"
)

// EventResponse is the wire form of an event.
type EventResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Category    string  `json:"category"`
	Recurrence  *string `json:"recurrence"`
}

// EventRequest is the body of POST and PUT /events. Absent fields are nil.
type EventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Category    *string `json:"category"`
	Recurrence  *string `json:"recurrence"`
}

func toEventResponse(e *entities.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   formatISO(e.StartTime),
		EndDate:     formatISO(e.EffectiveEnd()),
		Category:    e.Category,
		Recurrence:  e.Recurrence,
	}
}

func (c *Controller) initEventRoutes() {
	c.Group.GET("/events", c.GetEvents)
	c.Group.GET("/events.ics", c.ExportEvents)
	c.Group.POST("/events", c.CreateEvent)
	c.Group.PUT("/events/:id", c.UpdateEvent)
	c.Group.DELETE("/events/:id", c.DeleteEvent)
}

// monthEvents loads the events starting in the year/month query.
func (c *Controller) monthEvents(ctx echo.Context) ([]entities.Event, bool, error) {
	year, month, ok := parseYearMonth(ctx.QueryParam("year"), ctx.QueryParam("month"))
	if !ok {
		return nil, false, c.HandleError(ctx, nil, "Year and month required", http.StatusBadRequest)
	}
	start, end := datastore.MonthBounds(year, month)
	res := c.store.GetEvents(ctx.Request().Context(), &start, &end)
	if !res.OK() {
		return nil, false, handleResult(c, ctx, res, "Events not found", "Failed to load events", http.StatusInternalServerError)
	}
	return res.Value, true, nil
}

// GetEvents handles GET /api/events?year&month
func (c *Controller) GetEvents(ctx echo.Context) error {
	events, ok, err := c.monthEvents(ctx)
	if !ok {
		return err
	}
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	return ctx.JSON(http.StatusOK, out)
}

// CreateEvent handles POST /api/events
func (c *Controller) CreateEvent(ctx echo.Context) error {
	var req EventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return c.HandleError(ctx, nil, "Title is required", http.StatusBadRequest)
	}
	if req.StartDate == nil {
		return c.HandleError(ctx, nil, "Start date is required", http.StatusBadRequest)
	}

	in := datastore.NewEvent{Title: *req.Title, Recurrence: nonEmpty(req.Recurrence)}
	var err error
	if in.StartTime, err = parseDateTime(*req.StartDate); err != nil {
		return c.HandleError(ctx, err, "Invalid start date", http.StatusBadRequest)
	}
	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		end, err := parseDateTime(*req.EndDate)
		if err != nil {
			return c.HandleError(ctx, err, "Invalid end date", http.StatusBadRequest)
		}
		in.EndTime = &end
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Category != nil {
		in.Category = strings.TrimSpace(*req.Category)
	}

	res := c.store.CreateEvent(ctx.Request().Context(), in)
	if !res.OK() {
		return handleResult(c, ctx, res, "Event not found", "Failed to create event", http.StatusBadRequest)
	}

	c.log.Info("event created",
		logger.Uint64("id", uint64(res.Value.ID)),
		logger.Time("start", res.Value.StartTime))

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"event":   toEventResponse(res.Value),
	})
}

// UpdateEvent handles PUT /api/events/:id
func (c *Controller) UpdateEvent(ctx echo.Context) error {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		return c.HandleError(ctx, nil, "Invalid event ID", http.StatusBadRequest)
	}

	var req EventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	patch := datastore.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Recurrence:  req.Recurrence,
	}
	if req.StartDate != nil {
		t, err := parseDateTime(*req.StartDate)
		if err != nil {
			return c.HandleError(ctx, err, "Invalid start date", http.StatusBadRequest)
		}
		patch.StartTime = &t
	}
	// an empty end_date leaves the stored end untouched
	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		t, err := parseDateTime(*req.EndDate)
		if err != nil {
			return c.HandleError(ctx, err, "Invalid end date", http.StatusBadRequest)
		}
		patch.EndTime = &t
	}

	res := c.store.UpdateEvent(ctx.Request().Context(), id, patch)
	if !res.OK() {
		return handleResult(c, ctx, res, "Event not found", "Failed to update event", http.StatusBadRequest)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"event":   toEventResponse(res.Value),
	})
}

// DeleteEvent handles DELETE /api/events/:id
func (c *Controller) DeleteEvent(ctx echo.Context) error {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		return c.HandleError(ctx, nil, "Invalid event ID", http.StatusBadRequest)
	}
	res := c.store.DeleteEvent(ctx.Request().Context(), id)
	if !res.OK() || !res.Value {
		if res.OK() {
			res.Status = datastore.StatusNotFound
		}
		return handleResult(c, ctx, res, "Event not found", "Failed to delete event", http.StatusBadRequest)
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"success": true})
}

// nonEmpty returns nil for nil or blank strings.
func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
