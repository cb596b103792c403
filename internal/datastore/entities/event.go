package entities

import "time"

// Event is a calendar entry with an optional end time and recurrence tag.
// Recurrence is an opaque label such as "weekly"; it is never expanded.
type Event struct {
	ID           uint       `gorm:"primaryKey"`
	Title        string     `gorm:"size:200;not null"`
	Description  string     `gorm:"type:text"`
	StartTime    time.Time  `gorm:"not null;index"`
	EndTime      *time.Time `gorm:""`
	Category     string     `gorm:"size:50;default:General"`
	Recurrence   *string    `gorm:"size:50"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
	SyncStatus   string     `gorm:"size:20;default:local"`
	LastModified time.Time
}

// TableName returns the table name for GORM.
func (Event) TableName() string {
	return "events"
}

// EffectiveEnd returns EndTime, or StartTime when no end is set.
func (e *Event) EffectiveEnd() time.Time {
	if e.EndTime != nil {
		return *e.EndTime
	}
	return e.StartTime
}
