package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/calendar-go/internal/datastore"
	"github.com/tphakala/calendar-go/internal/errors"
)

// MockBackend is a testify mock of Backend.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) LookupSetting(ctx context.Context, key string) datastore.Result[string] {
	args := m.Called(ctx, key)
	return args.Get(0).(datastore.Result[string])
}

func (m *MockBackend) SetSetting(ctx context.Context, key, value string) datastore.Result[bool] {
	args := m.Called(ctx, key, value)
	return args.Get(0).(datastore.Result[bool])
}

func notFound() datastore.Result[string] {
	return datastore.Result[string]{Status: datastore.StatusNotFound}
}

func fault() datastore.Result[string] {
	return datastore.Result[string]{Status: datastore.StatusFault, Err: errors.NewStd("disk on fire")}
}

func newSQLiteService(t *testing.T) *Service {
	t.Helper()
	mgr, err := datastore.NewSQLiteManager(datastore.Config{Path: filepath.Join(t.TempDir(), "settings.db")})
	require.NoError(t, err)
	require.NoError(t, mgr.Initialize())
	t.Cleanup(func() { _ = mgr.Close() })
	return NewService(datastore.NewStore(mgr.DB(), nil), nil)
}

func TestDefaultsTable(t *testing.T) {
	t.Parallel()

	keys := Keys()
	assert.Len(t, keys, 10)
	assert.IsIncreasing(t, keys)

	d := Defaults()
	d[KeyTheme] = Default{Value: "neon"}
	assert.Equal(t, "light", Defaults()[KeyTheme].Value, "Defaults must return a copy")

	assert.True(t, IsKnown(KeyShowHolidays))
	assert.False(t, IsKnown("favourite_colour"))
}

func TestGet_Resolution(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	backend := new(MockBackend)
	backend.On("LookupSetting", ctx, KeyTheme).Return(datastore.Result[string]{Value: "dark", Status: datastore.StatusOK})
	backend.On("LookupSetting", ctx, KeyWeekStart).Return(notFound())
	backend.On("LookupSetting", ctx, "custom").Return(notFound())
	backend.On("LookupSetting", ctx, KeyTimeFormat).Return(fault())
	s := NewService(backend, nil)

	assert.Equal(t, "dark", s.Get(ctx, KeyTheme), "stored value wins")
	assert.Equal(t, "monday", s.Get(ctx, KeyWeekStart, "sunday"), "default beats fallback")
	assert.Equal(t, "x", s.Get(ctx, "custom", "x"), "fallback for unknown key")
	assert.Empty(t, s.Get(ctx, "custom"))
	assert.Equal(t, "24h", s.Get(ctx, KeyTimeFormat), "store fault resolves to default")

	backend.AssertExpectations(t)
}

func TestTypedAccessors(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	backend := new(MockBackend)
	backend.On("LookupSetting", ctx, KeyShowWeekends).Return(datastore.Result[string]{Value: "False", Status: datastore.StatusOK})
	backend.On("LookupSetting", ctx, KeyShowHolidays).Return(datastore.Result[string]{Value: "maybe", Status: datastore.StatusOK})
	backend.On("LookupSetting", ctx, KeyAutoSaveNotes).Return(notFound())
	backend.On("LookupSetting", ctx, "retries").Return(datastore.Result[string]{Value: " 3 ", Status: datastore.StatusOK})
	backend.On("LookupSetting", ctx, "unknown").Return(notFound())
	s := NewService(backend, nil)

	assert.False(t, s.GetBool(ctx, KeyShowWeekends))
	assert.True(t, s.GetBool(ctx, KeyShowHolidays), "unparsable value falls back to default")
	assert.True(t, s.GetBool(ctx, KeyAutoSaveNotes))
	assert.Equal(t, 3, s.GetInt(ctx, "retries"))
	assert.Equal(t, 0, s.GetInt(ctx, "unknown"))
	assert.False(t, s.GetBool(ctx, "unknown"))
}

func TestStringify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{"text", "text"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{int64(-7), "-7"},
		{1.5, "1.5"},
		{[]string{"US", "DE"}, "US,DE"},
		{struct{ A int }{1}, "{1}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Stringify(tt.in))
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Validate(KeyShowWeekends, "true"))
	assert.Error(t, Validate(KeyShowWeekends, "yes please"))
	assert.NoError(t, Validate(KeyTimezone, "Europe/Berlin"))
	assert.Error(t, Validate(KeyTimezone, "Mars/Olympus"))
	assert.NoError(t, Validate("anything", "goes"))

	err := Validate(KeyShowHolidays, "nah")
	assert.True(t, errors.IsValidation(err))
}

func TestSet_Failure(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	backend := new(MockBackend)
	backend.On("SetSetting", ctx, KeyTheme, "dark").Return(datastore.Result[bool]{Status: datastore.StatusFault, Err: errors.NewStd("boom")})
	backend.On("SetSetting", ctx, KeyShowWeekends, "false").Return(datastore.Result[bool]{Value: true, Status: datastore.StatusOK})
	s := NewService(backend, nil)

	assert.False(t, s.Set(ctx, KeyTheme, "dark"))
	assert.True(t, s.Set(ctx, KeyShowWeekends, false))
	backend.AssertExpectations(t)
}

func TestResetToDefaults_IgnoresPerKeyFailures(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	backend := new(MockBackend)
	backend.On("SetSetting", ctx, KeyTheme, "light").Return(datastore.Result[bool]{Status: datastore.StatusFault, Err: errors.NewStd("boom")})
	backend.On("SetSetting", ctx, mock.Anything, mock.Anything).Return(datastore.Result[bool]{Value: true, Status: datastore.StatusOK})
	s := NewService(backend, nil)

	assert.True(t, s.ResetToDefaults(ctx))
	backend.AssertNumberOfCalls(t, "SetSetting", len(Keys()))
}

func TestResetToDefaults_RecoversPanic(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	backend := new(MockBackend)
	backend.On("SetSetting", ctx, mock.Anything, mock.Anything).Panic("driver exploded")
	s := NewService(backend, nil)

	assert.False(t, s.ResetToDefaults(ctx))
}

func TestWithSQLite(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	s := newSQLiteService(t)

	all := s.GetAll(ctx)
	assert.Len(t, all, 10)
	assert.Equal(t, "UTC", all[KeyTimezone])
	assert.Equal(t, "true", all[KeyShowWeekends])

	assert.Equal(t, []string{"US", "DE", "CN"}, s.HolidayCountries(ctx))
	require.True(t, s.SetHolidayCountries(ctx, []string{" gb", "", "fr "}))
	assert.Equal(t, []string{"GB", "FR"}, s.HolidayCountries(ctx))
	assert.Equal(t, "GB,FR", s.Get(ctx, KeyHolidayCountries))

	require.True(t, s.Set(ctx, KeyShowWeekends, false))
	typed := s.GetAllTyped(ctx)
	assert.Equal(t, false, typed[KeyShowWeekends])
	assert.Equal(t, true, typed[KeyShowHolidays])
	assert.Equal(t, "month", typed[KeyCalendarView])

	require.True(t, s.ResetToDefaults(ctx))
	assert.Equal(t, []string{"US", "DE", "CN"}, s.HolidayCountries(ctx))
	assert.True(t, s.GetBool(ctx, KeyShowWeekends))
}

func TestHolidayCountries_Blank(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	backend := new(MockBackend)
	backend.On("LookupSetting", ctx, KeyHolidayCountries).Return(datastore.Result[string]{Value: " , ,", Status: datastore.StatusOK})
	s := NewService(backend, nil)

	assert.Empty(t, s.HolidayCountries(ctx))
}
