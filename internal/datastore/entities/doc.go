// Package entities defines the GORM models for the calendar store.
//
// All timestamps are stored in UTC. Note dates carry no time of day;
// they are normalised to midnight UTC before they reach the store.
package entities

// Sync status values. Sync fields are placeholders and are never read
// back by the application.
const (
	SyncStatusLocal = "local"
)

// DefaultCategory is the category assigned to events created without one.
const DefaultCategory = "General"
