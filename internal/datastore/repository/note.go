package repository

import (
	"context"
	"time"

	"github.com/tphakala/calendar-go/internal/datastore/entities"
)

// NoteRepository handles note persistence. Day lookups take the half-open
// range [dayStart, dayEnd) so stored time-of-day does not matter.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) error
	GetByID(ctx context.Context, id uint) (*entities.Note, error)
	// FirstForDay returns the lowest-id note of the day.
	FirstForDay(ctx context.Context, dayStart, dayEnd time.Time) (*entities.Note, error)
	// LatestForDay returns the most recently updated note of the day.
	LatestForDay(ctx context.Context, dayStart, dayEnd time.Time) (*entities.Note, error)
	// ListForDay returns all notes of the day, newest first.
	ListForDay(ctx context.Context, dayStart, dayEnd time.Time) ([]entities.Note, error)
	Update(ctx context.Context, id uint, columns map[string]any) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}
