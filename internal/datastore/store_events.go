package datastore

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/calendar-go/internal/datastore/entities"
	"github.com/tphakala/calendar-go/internal/datastore/repository"
	"github.com/tphakala/calendar-go/internal/errors"
	"github.com/tphakala/calendar-go/internal/observability/metrics"
)

// NewEvent holds the fields accepted when creating an event.
// Empty Category means entities.DefaultCategory.
type NewEvent struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	Category    string
	Recurrence  *string
}

// EventPatch lists the event fields to change. Nil fields are left alone.
type EventPatch struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Category    *string
	Recurrence  *string
}

// Empty reports whether the patch changes no field.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.StartTime == nil &&
		p.EndTime == nil && p.Category == nil && p.Recurrence == nil
}

// validationErr wraps ErrInvalidInput so execute and callers classify it as invalid.
func validationErr(msg string) error {
	return errors.Newf("%w: %s", repository.ErrInvalidInput, msg).
		Component("datastore").
		Category(errors.CategoryValidation).
		Build()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// CreateEvent stores a new event. An empty title is rejected as invalid.
func (s *Store) CreateEvent(ctx context.Context, in NewEvent) Result[*entities.Event] {
	if strings.TrimSpace(in.Title) == "" {
		return invalid[*entities.Event](validationErr("title is required"))
	}
	if in.StartTime.IsZero() {
		return invalid[*entities.Event](validationErr("start time is required"))
	}

	category := in.Category
	if category == "" {
		category = entities.DefaultCategory
	}
	now := s.timestamp()
	event := &entities.Event{
		Title:        in.Title,
		Description:  in.Description,
		StartTime:    in.StartTime.UTC(),
		EndTime:      utcPtr(in.EndTime),
		Category:     category,
		Recurrence:   in.Recurrence,
		CreatedAt:    now,
		UpdatedAt:    now,
		SyncStatus:   entities.SyncStatusLocal,
		LastModified: now,
	}

	return execute(ctx, s, metrics.OpEventCreate, metrics.TableEvents, func(tx *gorm.DB) (*entities.Event, error) {
		if err := repository.NewEventRepository(tx).Create(ctx, event); err != nil {
			return nil, err
		}
		return event, nil
	})
}

// GetEvent returns a single event by id.
func (s *Store) GetEvent(ctx context.Context, id uint) Result[*entities.Event] {
	return execute(ctx, s, metrics.OpEventGet, metrics.TableEvents, func(tx *gorm.DB) (*entities.Event, error) {
		return repository.NewEventRepository(tx).GetByID(ctx, id)
	})
}

// GetEvents returns events ordered by start time. Both bounds are inclusive
// and either may be nil.
func (s *Store) GetEvents(ctx context.Context, start, end *time.Time) Result[[]entities.Event] {
	res := execute(ctx, s, metrics.OpEventList, metrics.TableEvents, func(tx *gorm.DB) ([]entities.Event, error) {
		return repository.NewEventRepository(tx).List(ctx, start, end)
	})
	if res.OK() && s.metrics != nil {
		s.metrics.RecordQueryResultSize(metrics.OpEventList, metrics.TableEvents, len(res.Value))
	}
	return res
}

// UpdateEvent applies the non-nil fields of patch. updated_at and
// last_modified are refreshed even for an empty patch.
func (s *Store) UpdateEvent(ctx context.Context, id uint, patch EventPatch) Result[*entities.Event] {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return invalid[*entities.Event](validationErr("title must not be empty"))
	}

	now := s.timestamp()
	columns := map[string]any{
		"updated_at":    now,
		"last_modified": now,
	}
	if patch.Title != nil {
		columns["title"] = *patch.Title
	}
	if patch.Description != nil {
		columns["description"] = *patch.Description
	}
	if patch.StartTime != nil {
		columns["start_time"] = patch.StartTime.UTC()
	}
	if patch.EndTime != nil {
		columns["end_time"] = patch.EndTime.UTC()
	}
	if patch.Category != nil {
		columns["category"] = *patch.Category
	}
	if patch.Recurrence != nil {
		columns["recurrence"] = *patch.Recurrence
	}

	return execute(ctx, s, metrics.OpEventUpdate, metrics.TableEvents, func(tx *gorm.DB) (*entities.Event, error) {
		repo := repository.NewEventRepository(tx)
		if _, err := repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		// zero rows affected only means nothing changed; existence was checked above
		if err := repo.Update(ctx, id, columns); err != nil && !errors.Is(err, repository.ErrEventNotFound) {
			return nil, err
		}
		return repo.GetByID(ctx, id)
	})
}

// DeleteEvent removes the event. Value is true when a row was deleted.
func (s *Store) DeleteEvent(ctx context.Context, id uint) Result[bool] {
	return execute(ctx, s, metrics.OpEventDelete, metrics.TableEvents, func(tx *gorm.DB) (bool, error) {
		if err := repository.NewEventRepository(tx).Delete(ctx, id); err != nil {
			return false, err
		}
		return true, nil
	})
}
