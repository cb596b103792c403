package datastore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/calendar-go/internal/datastore/entities"
	"github.com/tphakala/calendar-go/internal/datastore/repository"
	"github.com/tphakala/calendar-go/internal/errors"
	"github.com/tphakala/calendar-go/internal/observability/metrics"
)

// A date may carry several notes. UpsertNote rewrites the first note of the
// day while AppendNote always adds one; GetNote resolves "the" note of a day
// as the most recently updated.

// newNote builds a note dated at midnight UTC of date's calendar day.
func (s *Store) newNote(date time.Time, content string) *entities.Note {
	now := s.timestamp()
	day, _ := DayBounds(date)
	return &entities.Note{
		Date:         day,
		Content:      content,
		CreatedAt:    now,
		UpdatedAt:    now,
		SyncStatus:   entities.SyncStatusLocal,
		LastModified: now,
	}
}

// UpsertNote overwrites the content of the first note on date's calendar day
// or inserts a new note when the day has none.
func (s *Store) UpsertNote(ctx context.Context, date time.Time, content string) Result[*entities.Note] {
	if date.IsZero() {
		return invalid[*entities.Note](validationErr("date is required"))
	}
	dayStart, dayEnd := DayBounds(date)

	return execute(ctx, s, metrics.OpNoteUpsert, metrics.TableNotes, func(tx *gorm.DB) (*entities.Note, error) {
		repo := repository.NewNoteRepository(tx)

		existing, err := repo.FirstForDay(ctx, dayStart, dayEnd)
		switch {
		case errors.Is(err, repository.ErrNoteNotFound):
			note := s.newNote(date, content)
			if err := repo.Create(ctx, note); err != nil {
				return nil, err
			}
			return note, nil
		case err != nil:
			return nil, err
		}

		now := s.timestamp()
		if err := repo.Update(ctx, existing.ID, map[string]any{
			"content":       content,
			"updated_at":    now,
			"last_modified": now,
		}); err != nil && !errors.Is(err, repository.ErrNoteNotFound) {
			return nil, err
		}
		return repo.GetByID(ctx, existing.ID)
	})
}

// AppendNote always inserts a new note for date.
func (s *Store) AppendNote(ctx context.Context, date time.Time, content string) Result[*entities.Note] {
	if date.IsZero() {
		return invalid[*entities.Note](validationErr("date is required"))
	}
	note := s.newNote(date, content)

	return execute(ctx, s, metrics.OpNoteAppend, metrics.TableNotes, func(tx *gorm.DB) (*entities.Note, error) {
		if err := repository.NewNoteRepository(tx).Create(ctx, note); err != nil {
			return nil, err
		}
		return note, nil
	})
}

// GetNote returns the most recently updated note on date's calendar day.
func (s *Store) GetNote(ctx context.Context, date time.Time) Result[*entities.Note] {
	dayStart, dayEnd := DayBounds(date)
	return execute(ctx, s, metrics.OpNoteGet, metrics.TableNotes, func(tx *gorm.DB) (*entities.Note, error) {
		return repository.NewNoteRepository(tx).LatestForDay(ctx, dayStart, dayEnd)
	})
}

// GetNotesForDate returns every note on date's calendar day, newest first.
// A day without notes yields an empty slice with StatusOK.
func (s *Store) GetNotesForDate(ctx context.Context, date time.Time) Result[[]entities.Note] {
	dayStart, dayEnd := DayBounds(date)
	res := execute(ctx, s, metrics.OpNoteGet, metrics.TableNotes, func(tx *gorm.DB) ([]entities.Note, error) {
		return repository.NewNoteRepository(tx).ListForDay(ctx, dayStart, dayEnd)
	})
	if res.OK() && res.Value == nil {
		res.Value = []entities.Note{}
	}
	return res
}

// UpdateNoteByID replaces the content of one note.
func (s *Store) UpdateNoteByID(ctx context.Context, id uint, content string) Result[*entities.Note] {
	now := s.timestamp()
	return execute(ctx, s, metrics.OpNoteUpdate, metrics.TableNotes, func(tx *gorm.DB) (*entities.Note, error) {
		repo := repository.NewNoteRepository(tx)
		if _, err := repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		if err := repo.Update(ctx, id, map[string]any{
			"content":       content,
			"updated_at":    now,
			"last_modified": now,
		}); err != nil && !errors.Is(err, repository.ErrNoteNotFound) {
			return nil, err
		}
		return repo.GetByID(ctx, id)
	})
}

// DeleteNoteByID removes one note.
func (s *Store) DeleteNoteByID(ctx context.Context, id uint) Result[bool] {
	return execute(ctx, s, metrics.OpNoteDelete, metrics.TableNotes, func(tx *gorm.DB) (bool, error) {
		if err := repository.NewNoteRepository(tx).Delete(ctx, id); err != nil {
			return false, err
		}
		return true, nil
	})
}

// DeleteNote removes the first note on date's calendar day only.
func (s *Store) DeleteNote(ctx context.Context, date time.Time) Result[bool] {
	dayStart, dayEnd := DayBounds(date)
	return execute(ctx, s, metrics.OpNoteDelete, metrics.TableNotes, func(tx *gorm.DB) (bool, error) {
		repo := repository.NewNoteRepository(tx)
		note, err := repo.FirstForDay(ctx, dayStart, dayEnd)
		if err != nil {
			return false, err
		}
		if err := repo.Delete(ctx, note.ID); err != nil {
			return false, err
		}
		return true, nil
	})
}
