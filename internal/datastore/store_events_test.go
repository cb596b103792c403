package datastore

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/calendar-go/internal/datastore/entities"
	"github.com/tphakala/calendar-go/internal/datastore/repository"
	"github.com/tphakala/calendar-go/internal/errors"
	"github.com/tphakala/calendar-go/internal/observability/metrics"
)

func TestCreateEvent(t *testing.T) {
	t.Parallel()
	store, _ := setupTestStore(t)
	ctx := t.Context()

	t.Run("defaults", func(t *testing.T) {
		res := store.CreateEvent(ctx, NewEvent{
			Title:     "Dentist",
			StartTime: time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC),
		})
		require.True(t, res.OK(), "status %s: %v", res.Status, res.Err)
		ev := res.Value
		assert.NotZero(t, ev.ID)
		assert.Equal(t, entities.DefaultCategory, ev.Category)
		assert.Equal(t, entities.SyncStatusLocal, ev.SyncStatus)
		assert.Empty(t, ev.Description)
		assert.Nil(t, ev.EndTime)
		assert.Nil(t, ev.Recurrence)
	})

	t.Run("all fields", func(t *testing.T) {
		end := time.Date(2024, 3, 6, 18, 0, 0, 0, time.UTC)
		res := store.CreateEvent(ctx, NewEvent{
			Title:       "Conference",
			Description: "Two days",
			StartTime:   time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC),
			EndTime:     &end,
			Category:    "Work",
			Recurrence:  ptr("yearly"),
		})
		require.True(t, res.OK())

		got := store.GetEvent(ctx, res.Value.ID)
		require.True(t, got.OK())
		assert.Equal(t, "Conference", got.Value.Title)
		assert.Equal(t, "Work", got.Value.Category)
		require.NotNil(t, got.Value.EndTime)
		assert.True(t, end.Equal(*got.Value.EndTime))
		require.NotNil(t, got.Value.Recurrence)
		assert.Equal(t, "yearly", *got.Value.Recurrence)
	})

	t.Run("end before start is accepted", func(t *testing.T) {
		end := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
		res := store.CreateEvent(ctx, NewEvent{
			Title:     "Backwards",
			StartTime: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			EndTime:   &end,
		})
		assert.True(t, res.OK())
	})

	t.Run("empty title is invalid", func(t *testing.T) {
		for _, title := range []string{"", "   "} {
			res := store.CreateEvent(ctx, NewEvent{Title: title, StartTime: time.Now()})
			assert.True(t, res.Invalid())
			assert.True(t, errors.Is(res.Err, repository.ErrInvalidInput))
		}
	})

	t.Run("non-UTC input is stored as UTC", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		res := store.CreateEvent(ctx, NewEvent{
			Title:     "Offset",
			StartTime: time.Date(2024, 3, 5, 12, 0, 0, 0, loc),
		})
		require.True(t, res.OK())
		got := store.GetEvent(ctx, res.Value.ID)
		require.True(t, got.OK())
		assert.Equal(t, 10, got.Value.StartTime.UTC().Hour())
	})
}

func TestGetEvents_Range(t *testing.T) {
	t.Parallel()
	store, _ := setupTestStore(t)
	ctx := t.Context()

	starts := []time.Time{
		time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	// insert out of order to check sorting
	for _, i := range []int{3, 0, 4, 2, 1} {
		res := store.CreateEvent(ctx, NewEvent{Title: starts[i].Format(time.RFC3339), StartTime: starts[i]})
		require.True(t, res.OK())
	}

	t.Run("month bounds", func(t *testing.T) {
		start, end := MonthBounds(2024, time.February)
		res := store.GetEvents(ctx, &start, &end)
		require.True(t, res.OK())
		require.Len(t, res.Value, 3)
		assert.True(t, res.Value[0].StartTime.Equal(starts[1]))
		assert.True(t, res.Value[1].StartTime.Equal(starts[2]))
		assert.True(t, res.Value[2].StartTime.Equal(starts[3]))
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		res := store.GetEvents(ctx, &starts[1], &starts[2])
		require.True(t, res.OK())
		assert.Len(t, res.Value, 2)
	})

	t.Run("open bounds", func(t *testing.T) {
		all := store.GetEvents(ctx, nil, nil)
		require.True(t, all.OK())
		require.Len(t, all.Value, len(starts))
		for i := 1; i < len(all.Value); i++ {
			assert.False(t, all.Value[i].StartTime.Before(all.Value[i-1].StartTime), "events must be ascending")
		}

		onlyStart := store.GetEvents(ctx, &starts[3], nil)
		require.True(t, onlyStart.OK())
		assert.Len(t, onlyStart.Value, 2)

		onlyEnd := store.GetEvents(ctx, nil, &starts[0])
		require.True(t, onlyEnd.OK())
		assert.Len(t, onlyEnd.Value, 1)
	})
}

func TestUpdateEvent(t *testing.T) {
	t.Parallel()
	clock := newFakeClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	store, _ := setupTestStore(t, WithClock(clock.Now))
	ctx := t.Context()

	created := store.CreateEvent(ctx, NewEvent{
		Title:       "Original",
		Description: "keep me",
		StartTime:   time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC),
		Category:    "Personal",
	})
	require.True(t, created.OK())
	id := created.Value.ID

	t.Run("partial update leaves other fields", func(t *testing.T) {
		clock.Advance(time.Hour)
		res := store.UpdateEvent(ctx, id, EventPatch{Title: ptr("Renamed")})
		require.True(t, res.OK(), "status %s: %v", res.Status, res.Err)
		assert.Equal(t, "Renamed", res.Value.Title)
		assert.Equal(t, "keep me", res.Value.Description)
		assert.Equal(t, "Personal", res.Value.Category)
		assert.True(t, res.Value.UpdatedAt.Equal(clock.Now()))
		assert.True(t, res.Value.LastModified.Equal(clock.Now()))
		assert.True(t, res.Value.UpdatedAt.After(res.Value.CreatedAt))
	})

	t.Run("empty patch refreshes timestamps", func(t *testing.T) {
		clock.Advance(time.Hour)
		res := store.UpdateEvent(ctx, id, EventPatch{})
		require.True(t, res.OK())
		assert.True(t, res.Value.UpdatedAt.Equal(clock.Now()))
	})

	t.Run("times and recurrence", func(t *testing.T) {
		newStart := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
		newEnd := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
		res := store.UpdateEvent(ctx, id, EventPatch{
			StartTime:  &newStart,
			EndTime:    &newEnd,
			Recurrence: ptr("weekly"),
		})
		require.True(t, res.OK())
		assert.True(t, res.Value.StartTime.Equal(newStart))
		require.NotNil(t, res.Value.EndTime)
		assert.True(t, res.Value.EndTime.Equal(newEnd))
		require.NotNil(t, res.Value.Recurrence)
		assert.Equal(t, "weekly", *res.Value.Recurrence)
	})

	t.Run("missing id", func(t *testing.T) {
		res := store.UpdateEvent(ctx, 99999, EventPatch{Title: ptr("x")})
		assert.True(t, res.NotFound())
		assert.NoError(t, res.Err)
	})

	t.Run("blank title", func(t *testing.T) {
		res := store.UpdateEvent(ctx, id, EventPatch{Title: ptr("")})
		assert.True(t, res.Invalid())
	})
}

func TestDeleteEvent(t *testing.T) {
	t.Parallel()
	store, _ := setupTestStore(t)
	ctx := t.Context()

	created := store.CreateEvent(ctx, NewEvent{Title: "Gone soon", StartTime: time.Now()})
	require.True(t, created.OK())

	res := store.DeleteEvent(ctx, created.Value.ID)
	require.True(t, res.OK())
	assert.True(t, res.Value)

	again := store.DeleteEvent(ctx, created.Value.ID)
	assert.True(t, again.NotFound())
	assert.False(t, again.Value)

	assert.True(t, store.GetEvent(ctx, created.Value.ID).NotFound())
}

func TestStore_FaultOnClosedDatabase(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	dm, err := metrics.NewDatastoreMetrics(registry)
	require.NoError(t, err)

	store, mgr := setupTestStore(t, WithMetrics(dm))
	require.NoError(t, mgr.Close())

	ctx := t.Context()
	res := store.CreateEvent(ctx, NewEvent{Title: "never stored", StartTime: time.Now()})
	assert.True(t, res.Fault())
	require.Error(t, res.Err)

	var ee *errors.EnhancedError
	require.True(t, errors.As(res.Err, &ee))
	assert.Equal(t, "datastore", ee.GetComponent())
	assert.Equal(t, string(errors.CategoryDatabase), ee.GetCategory())

	assert.Equal(t, "fallback", store.GetSetting(ctx, "timezone", "fallback"))
	assert.Error(t, store.Ping(ctx))
}
