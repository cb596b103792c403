package repository

import (
	"context"
	"time"

	"github.com/tphakala/calendar-go/internal/datastore/entities"
)

// EventRepository handles event persistence.
type EventRepository interface {
	// Create inserts a new event and fills in its ID.
	Create(ctx context.Context, event *entities.Event) error
	// GetByID returns ErrEventNotFound when no row matches.
	GetByID(ctx context.Context, id uint) (*entities.Event, error)
	// List returns events ordered by start time. Nil bounds are open and
	// both bounds are inclusive.
	List(ctx context.Context, start, end *time.Time) ([]entities.Event, error)
	// Update writes the given column values to the event.
	Update(ctx context.Context, id uint, columns map[string]any) error
	// Delete removes the event or returns ErrEventNotFound.
	Delete(ctx context.Context, id uint) error
	// Count returns the number of stored events.
	Count(ctx context.Context) (int64, error)
}
