package datastore

import (
	"context"

	"gorm.io/gorm"

	"github.com/tphakala/calendar-go/internal/datastore/entities"
	"github.com/tphakala/calendar-go/internal/datastore/repository"
	"github.com/tphakala/calendar-go/internal/observability/metrics"
)

// GetSetting returns the stored value for key, or def when the key is
// unknown or the store fails.
func (s *Store) GetSetting(ctx context.Context, key, def string) string {
	res := s.LookupSetting(ctx, key)
	if !res.OK() {
		return def
	}
	return res.Value
}

// LookupSetting returns the stored value for key with its outcome.
func (s *Store) LookupSetting(ctx context.Context, key string) Result[string] {
	return execute(ctx, s, metrics.OpSettingGet, metrics.TableSettings, func(tx *gorm.DB) (string, error) {
		setting, err := repository.NewSettingRepository(tx).Get(ctx, key)
		if err != nil {
			return "", err
		}
		return setting.Value, nil
	})
}

// SetSetting inserts or overwrites key. Value is true on success.
func (s *Store) SetSetting(ctx context.Context, key, value string) Result[bool] {
	if key == "" {
		return invalid[bool](validationErr("setting key is required"))
	}
	now := s.timestamp()
	return execute(ctx, s, metrics.OpSettingSet, metrics.TableSettings, func(tx *gorm.DB) (bool, error) {
		if err := repository.NewSettingRepository(tx).Upsert(ctx, key, value, now); err != nil {
			return false, err
		}
		return true, nil
	})
}

// ListSettings returns all stored settings ordered by key.
func (s *Store) ListSettings(ctx context.Context) Result[[]entities.Setting] {
	return execute(ctx, s, metrics.OpSettingList, metrics.TableSettings, func(tx *gorm.DB) ([]entities.Setting, error) {
		return repository.NewSettingRepository(tx).List(ctx)
	})
}

// SettingsCount returns the number of stored settings.
func (s *Store) SettingsCount(ctx context.Context) Result[int64] {
	return execute(ctx, s, metrics.OpSettingList, metrics.TableSettings, func(tx *gorm.DB) (int64, error) {
		return repository.NewSettingRepository(tx).Count(ctx)
	})
}
