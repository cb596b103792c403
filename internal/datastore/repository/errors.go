// Package repository provides per-entity GORM repositories for the calendar store.
//
// Repositories are cheap value wrappers around a *gorm.DB. The store builds
// them from the transaction handle so each call runs inside one transaction.
package repository

import "github.com/tphakala/calendar-go/internal/errors"

// Sentinel errors for repository operations.
// These let callers distinguish failure modes without matching GORM errors.
var (
	// ErrEventNotFound indicates the requested event does not exist.
	ErrEventNotFound = errors.NewStd("event not found")

	// ErrNoteNotFound indicates no note exists for the id or date.
	ErrNoteNotFound = errors.NewStd("note not found")

	// ErrSettingNotFound indicates the setting key is not stored.
	ErrSettingNotFound = errors.NewStd("setting not found")

	// ErrInvalidInput indicates invalid input parameters.
	ErrInvalidInput = errors.NewStd("invalid input")
)
