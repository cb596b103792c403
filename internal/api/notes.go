package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/calendar-go/internal/datastore"
	"github.com/tphakala/calendar-go/internal/datastore/entities"
)

// NoteResponse is the wire form of a note.
type NoteResponse struct {
	ID        uint   `json:"id"`
	Date      string `json:"date"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// NoteRequest is the body of the note write endpoints.
type NoteRequest struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

func toNoteResponse(n *entities.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Date:      n.Date.UTC().Format(DateLayout),
		Content:   n.Content,
		CreatedAt: formatISO(n.CreatedAt),
		UpdatedAt: formatISO(n.UpdatedAt),
	}
}

func (c *Controller) initNoteRoutes() {
	c.Group.GET("/notes", c.GetNotes)
	c.Group.POST("/notes", c.SaveNote)
	c.Group.POST("/notes/new", c.AddNote)
	c.Group.PUT("/notes/:id", c.UpdateNote)
	c.Group.DELETE("/notes/:id", c.DeleteNoteByID)
	c.Group.DELETE("/notes", c.DeleteNoteByDate)
}

// GetNotes handles GET /api/notes?date
func (c *Controller) GetNotes(ctx echo.Context) error {
	raw := ctx.QueryParam("date")
	if raw == "" {
		return c.HandleError(ctx, nil, "Date required", http.StatusBadRequest)
	}
	date, err := parseDate(raw)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid date format", http.StatusBadRequest)
	}

	res := c.store.GetNotesForDate(ctx.Request().Context(), date)
	if !res.OK() {
		return handleResult(c, ctx, res, "Notes not found", "Failed to load notes", http.StatusInternalServerError)
	}
	notes := make([]NoteResponse, 0, len(res.Value))
	for i := range res.Value {
		notes = append(notes, toNoteResponse(&res.Value[i]))
	}
	return ctx.JSON(http.StatusOK, map[string]any{"notes": notes})
}

// bindNote reads a NoteRequest and parses its date. When ok is false the
// error response has already been written and err is its result.
func (c *Controller) bindNote(ctx echo.Context) (req NoteRequest, date time.Time, ok bool, err error) {
	if err := ctx.Bind(&req); err != nil {
		return req, date, false, c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.Date == "" {
		return req, date, false, c.HandleError(ctx, nil, "Date required", http.StatusBadRequest)
	}
	date, perr := parseDate(req.Date)
	if perr != nil {
		return req, date, false, c.HandleError(ctx, perr, "Invalid date format", http.StatusBadRequest)
	}
	return req, date, true, nil
}

// SaveNote handles POST /api/notes; it replaces the note of the date.
func (c *Controller) SaveNote(ctx echo.Context) error {
	req, date, ok, err := c.bindNote(ctx)
	if !ok {
		return err
	}
	res := c.store.UpsertNote(ctx.Request().Context(), date, req.Content)
	return c.noteResult(ctx, res, "Failed to save note")
}

// AddNote handles POST /api/notes/new; it always inserts.
func (c *Controller) AddNote(ctx echo.Context) error {
	req, date, ok, err := c.bindNote(ctx)
	if !ok {
		return err
	}
	res := c.store.AppendNote(ctx.Request().Context(), date, req.Content)
	return c.noteResult(ctx, res, "Failed to create note")
}

// UpdateNote handles PUT /api/notes/:id
func (c *Controller) UpdateNote(ctx echo.Context) error {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		return c.HandleError(ctx, nil, "Invalid note ID", http.StatusBadRequest)
	}
	var req NoteRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	res := c.store.UpdateNoteByID(ctx.Request().Context(), id, req.Content)
	return c.noteResult(ctx, res, "Failed to update note")
}

// DeleteNoteByID handles DELETE /api/notes/:id
func (c *Controller) DeleteNoteByID(ctx echo.Context) error {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		return c.HandleError(ctx, nil, "Invalid note ID", http.StatusBadRequest)
	}
	return c.deleteResult(ctx, c.store.DeleteNoteByID(ctx.Request().Context(), id))
}

// DeleteNoteByDate handles DELETE /api/notes with a {date} body. Only the
// first note of the date is removed.
func (c *Controller) DeleteNoteByDate(ctx echo.Context) error {
	_, date, ok, err := c.bindNote(ctx)
	if !ok {
		return err
	}
	return c.deleteResult(ctx, c.store.DeleteNote(ctx.Request().Context(), date))
}

func (c *Controller) noteResult(ctx echo.Context, res datastore.Result[*entities.Note], failed string) error {
	if !res.OK() {
		return handleResult(c, ctx, res, "Note not found", failed, http.StatusBadRequest)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"note":    toNoteResponse(res.Value),
	})
}

func (c *Controller) deleteResult(ctx echo.Context, res datastore.Result[bool]) error {
	if res.OK() && !res.Value {
		res.Status = datastore.StatusNotFound
	}
	if !res.OK() {
		return handleResult(c, ctx, res, "Note not found", "Failed to delete note", http.StatusBadRequest)
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"success": true})
}
