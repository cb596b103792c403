package repository

import (
	"context"
	"time"

	"github.com/tphakala/calendar-go/internal/datastore/entities"
)

// SettingRepository handles key/value settings.
type SettingRepository interface {
	// Get returns ErrSettingNotFound for unknown keys.
	Get(ctx context.Context, key string) (*entities.Setting, error)
	// Upsert inserts or overwrites the value for key, stamping now as the
	// update time (and creation time for new keys).
	Upsert(ctx context.Context, key, value string, now time.Time) error
	// List returns all settings ordered by key.
	List(ctx context.Context) ([]entities.Setting, error)
	Count(ctx context.Context) (int64, error)
}
