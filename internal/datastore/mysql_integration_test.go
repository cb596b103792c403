//go:build integration

package datastore

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
)

// mysqlConfigFromEnv returns MySQL config from environment variables, or nil.
func mysqlConfigFromEnv() *MySQLConfig {
	host := os.Getenv("MYSQL_TEST_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("MYSQL_TEST_PORT")
	if port == "" {
		port = "3306"
	}
	return &MySQLConfig{
		Host:     host,
		Port:     port,
		Username: os.Getenv("MYSQL_TEST_USER"),
		Password: os.Getenv("MYSQL_TEST_PASSWORD"),
		Database: os.Getenv("MYSQL_TEST_DATABASE"),
	}
}

// startMySQL uses MYSQL_TEST_HOST when set, otherwise starts a throwaway
// container. The test is skipped when neither is possible.
func startMySQL(t *testing.T) *MySQLConfig {
	t.Helper()

	if cfg := mysqlConfigFromEnv(); cfg != nil {
		return cfg
	}

	ctx := t.Context()
	container, err := tcmysql.Run(ctx, "mysql:8.0.36",
		tcmysql.WithDatabase("calendar"),
		tcmysql.WithUsername("calendar"),
		tcmysql.WithPassword("calendar"),
	)
	if err != nil {
		t.Skipf("MySQL container unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	return &MySQLConfig{
		Host:     host,
		Port:     port.Port(),
		Username: "calendar",
		Password: "calendar",
		Database: "calendar",
	}
}

func TestMySQLStore_RoundTrip(t *testing.T) {
	cfg := startMySQL(t)

	mgr, err := NewMySQLManager(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })
	require.NoError(t, mgr.Initialize())
	assert.True(t, mgr.IsMySQL())

	store := NewStore(mgr.DB(), nil)
	ctx := t.Context()

	start := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	created := store.CreateEvent(ctx, NewEvent{Title: "Leap", StartTime: start})
	require.True(t, created.OK(), "status %s: %v", created.Status, created.Err)

	from, to := MonthBounds(2024, time.February)
	events := store.GetEvents(ctx, &from, &to)
	require.True(t, events.OK())
	assert.NotEmpty(t, events.Value)

	upd := store.UpdateEvent(ctx, created.Value.ID, EventPatch{Title: ptr("Leap day")})
	require.True(t, upd.OK())
	assert.Equal(t, "Leap day", upd.Value.Title)

	require.True(t, store.UpsertNote(ctx, date(2024, 2, 29), "note").OK())
	require.True(t, store.UpsertNote(ctx, date(2024, 2, 29), "note").OK(), "identical rewrite must not read as missing")
	notes := store.GetNotesForDate(ctx, date(2024, 2, 29))
	require.True(t, notes.OK())
	assert.Len(t, notes.Value, 1)

	require.True(t, store.SetSetting(ctx, "theme", "dark").OK())
	assert.Equal(t, "dark", store.GetSetting(ctx, "theme", ""))

	assert.True(t, store.DeleteEvent(ctx, created.Value.ID).OK())
}
