package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/calendar-go/internal/datastore/entities"
	"github.com/tphakala/calendar-go/internal/errors"
)

// eventRepository implements EventRepository.
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *entities.Event) error {
	if event == nil || event.Title == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (*entities.Event, error) {
	var event entities.Event
	err := r.db.WithContext(ctx).First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, start, end *time.Time) ([]entities.Event, error) {
	query := r.db.WithContext(ctx).Model(&entities.Event{})
	if start != nil {
		query = query.Where("start_time >= ?", start.UTC())
	}
	if end != nil {
		query = query.Where("start_time <= ?", end.UTC())
	}

	var events []entities.Event
	err := query.Order("start_time ASC").Order("id ASC").Find(&events).Error
	return events, err
}

func (r *eventRepository) Update(ctx context.Context, id uint, columns map[string]any) error {
	result := r.db.WithContext(ctx).Model(&entities.Event{ID: id}).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Event{}).Count(&count).Error
	return count, err
}
