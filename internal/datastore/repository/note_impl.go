package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/calendar-go/internal/datastore/entities"
	"github.com/tphakala/calendar-go/internal/errors"
)

// noteRepository implements NoteRepository.
type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *entities.Note) error {
	if note == nil || note.Date.IsZero() {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) GetByID(ctx context.Context, id uint) (*entities.Note, error) {
	var note entities.Note
	err := r.db.WithContext(ctx).First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) dayQuery(ctx context.Context, dayStart, dayEnd time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", dayStart.UTC(), dayEnd.UTC())
}

func (r *noteRepository) firstOrdered(ctx context.Context, dayStart, dayEnd time.Time, order ...string) (*entities.Note, error) {
	query := r.dayQuery(ctx, dayStart, dayEnd)
	for _, o := range order {
		query = query.Order(o)
	}

	var notes []entities.Note
	if err := query.Limit(1).Find(&notes).Error; err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, ErrNoteNotFound
	}
	return &notes[0], nil
}

func (r *noteRepository) FirstForDay(ctx context.Context, dayStart, dayEnd time.Time) (*entities.Note, error) {
	return r.firstOrdered(ctx, dayStart, dayEnd, "id ASC")
}

func (r *noteRepository) LatestForDay(ctx context.Context, dayStart, dayEnd time.Time) (*entities.Note, error) {
	return r.firstOrdered(ctx, dayStart, dayEnd, "updated_at DESC", "id DESC")
}

func (r *noteRepository) ListForDay(ctx context.Context, dayStart, dayEnd time.Time) ([]entities.Note, error) {
	var notes []entities.Note
	err := r.dayQuery(ctx, dayStart, dayEnd).
		Order("created_at DESC").
		Order("id DESC").
		Find(&notes).Error
	return notes, err
}

func (r *noteRepository) Update(ctx context.Context, id uint, columns map[string]any) error {
	result := r.db.WithContext(ctx).Model(&entities.Note{ID: id}).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Note{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *noteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Note{}).Count(&count).Error
	return count, err
}
