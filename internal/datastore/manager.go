// Package datastore persists events, notes and settings through GORM.
//
// A Manager owns the database connection for one backend (SQLite or MySQL)
// and prepares the schema. The Store sits on top of it and exposes the
// calendar operations, each in its own transaction.
package datastore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/calendar-go/internal/conf"
	"github.com/tphakala/calendar-go/internal/datastore/entities"
	"github.com/tphakala/calendar-go/internal/errors"
	"github.com/tphakala/calendar-go/internal/logger"
)

// Manager defines the interface for database backends.
type Manager interface {
	// Initialize creates the schema and seeds initial data.
	Initialize() error
	// DB returns the underlying GORM database.
	DB() *gorm.DB
	// Path returns the database location (file path for SQLite, host:port/db for MySQL).
	Path() string
	// Close closes the database connection.
	Close() error
	// IsMySQL returns true if this is a MySQL manager.
	IsMySQL() bool
}

// initialSettings are written the first time the schema is created.
var initialSettings = []entities.Setting{
	{Key: "timezone", Value: "UTC"},
	{Key: "holiday_countries", Value: "US,DE,CN"},
	{Key: "theme", Value: "light"},
	{Key: "calendar_view", Value: "month"},
}

// migrate runs AutoMigrate for all entities and seeds the settings table
// when it is empty.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.Event{}, &entities.Note{}, &entities.Setting{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	var count int64
	if err := db.Model(&entities.Setting{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count settings: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	seed := make([]entities.Setting, len(initialSettings))
	for i, s := range initialSettings {
		s.CreatedAt = now
		s.UpdatedAt = now
		seed[i] = s
	}
	if err := db.Create(&seed).Error; err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	return nil
}

// Open creates and initializes the manager selected by settings.Database.Driver.
func Open(settings *conf.Settings, log logger.Logger) (Manager, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	dbLog := log.Module("datastore")
	db := settings.Database

	var (
		m   Manager
		err error
	)
	switch db.Driver {
	case conf.DriverMySQL:
		m, err = NewMySQLManager(&MySQLConfig{
			Host:          db.MySQL.Host,
			Port:          db.MySQL.Port,
			Username:      db.MySQL.Username,
			Password:      db.MySQL.Password,
			Database:      db.MySQL.Database,
			Logger:        dbLog,
			SlowThreshold: db.SlowThreshold,
		})
	case conf.DriverSQLite, "":
		m, err = NewSQLiteManager(Config{
			Path:          db.SQLite.Path,
			Logger:        dbLog,
			SlowThreshold: db.SlowThreshold,
		})
	default:
		return nil, errors.Newf("unsupported database driver %q", db.Driver).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("driver", db.Driver).
			Priority(errors.PriorityCritical).
			Build()
	}

	if err := m.Initialize(); err != nil {
		_ = m.Close()
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("path", m.Path()).
			Priority(errors.PriorityCritical).
			Build()
	}

	dbLog.Info("database ready",
		logger.String("driver", db.Driver),
		logger.String("path", m.Path()))
	return m, nil
}

// ping checks the connection behind db.
func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
