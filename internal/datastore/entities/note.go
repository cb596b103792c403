package entities

import "time"

// Note is free text attached to a calendar day. Several notes may share a date.
type Note struct {
	ID           uint      `gorm:"primaryKey"`
	Date         time.Time `gorm:"not null;index"`
	Content      string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
	SyncStatus   string    `gorm:"size:20;default:local"`
	LastModified time.Time
}

// TableName returns the table name for GORM.
func (Note) TableName() string {
	return "notes"
}
