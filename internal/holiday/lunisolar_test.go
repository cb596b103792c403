package holiday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLunarDate_NewYear(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		1901: "1901-02-19",
		2000: "2000-02-05",
		2015: "2015-02-19",
		2016: "2016-02-08",
		2017: "2017-01-28",
		2018: "2018-02-16",
		2019: "2019-02-05",
		2020: "2020-01-25",
		2021: "2021-02-12",
		2022: "2022-02-01",
		2023: "2023-01-22",
		2024: "2024-02-10",
		2025: "2025-01-29",
		2026: "2026-02-17",
		2027: "2027-02-06",
		2028: "2028-01-26",
		2029: "2029-02-13",
		2030: "2030-02-03",
		2031: "2031-01-23",
	}
	for year, want := range tests {
		got, ok := lunarDate(year, 1, 1)
		require.True(t, ok, year)
		assert.Equal(t, want, got.Format(DateLayout), "lunar new year %d", year)
	}
}

func TestLunarDate_Festivals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year       int
		dragonBoat string
		midAutumn  string
	}{
		{2017, "2017-05-30", "2017-10-04"},
		{2020, "2020-06-25", "2020-10-01"}, // leap fourth month
		{2021, "2021-06-14", "2021-09-21"},
		{2022, "2022-06-03", "2022-09-10"},
		{2023, "2023-06-22", "2023-09-29"}, // leap second month
		{2024, "2024-06-10", "2024-09-17"},
		{2025, "2025-05-31", "2025-10-06"}, // leap sixth month
		{2026, "2026-06-19", "2026-09-25"},
		{2027, "2027-06-09", "2027-09-15"},
		{2028, "2028-05-28", "2028-10-03"},
		{2029, "2029-06-16", "2029-09-22"},
		{2030, "2030-06-05", "2030-09-12"},
		{2031, "2031-06-24", "2031-10-01"},
	}
	for _, tt := range tests {
		got, ok := lunarDate(tt.year, 5, 5)
		require.True(t, ok)
		assert.Equal(t, tt.dragonBoat, got.Format(DateLayout), "dragon boat %d", tt.year)

		got, ok = lunarDate(tt.year, 8, 15)
		require.True(t, ok)
		assert.Equal(t, tt.midAutumn, got.Format(DateLayout), "mid-autumn %d", tt.year)
	}
}

func TestLunarDate_LateMonths(t *testing.T) {
	t.Parallel()

	// the twelfth month of lunar 2023 ends on the eve of lunar new year 2024
	got, ok := lunarDate(2023, 12, 1)
	require.True(t, ok)
	next, _ := lunarDate(2024, 1, 1)
	assert.True(t, got.Before(next))
	assert.Greater(t, next.Sub(got), 28*24*time.Hour)
	assert.Less(t, next.Sub(got), 31*24*time.Hour)
}

func TestLunarDate_OutOfRange(t *testing.T) {
	t.Parallel()

	for _, year := range []int{1900, 2100} {
		_, ok := lunarDate(year, 1, 1)
		assert.False(t, ok, year)
		_, ok = solarTermDate(year, 15)
		assert.False(t, ok, year)
	}
	_, ok := lunarDate(2024, 13, 1)
	assert.False(t, ok)
	_, ok = lunarDate(2024, 1, 31)
	assert.False(t, ok)
}

func TestSolarTermDate(t *testing.T) {
	t.Parallel()

	qingming := map[int]string{
		2019: "2019-04-05",
		2020: "2020-04-04",
		2021: "2021-04-04",
		2022: "2022-04-05",
		2023: "2023-04-05",
		2024: "2024-04-04",
		2025: "2025-04-04",
		2026: "2026-04-05",
		2027: "2027-04-05",
		2028: "2028-04-04",
		2029: "2029-04-04",
		2030: "2030-04-05",
		2031: "2031-04-05",
	}
	for year, want := range qingming {
		got, ok := solarTermDate(year, 15)
		require.True(t, ok)
		assert.Equal(t, want, got.Format(DateLayout), "qingming %d", year)
	}

	solstice, ok := solarTermDate(2024, 270)
	require.True(t, ok)
	assert.Equal(t, "2024-12-21", solstice.Format(DateLayout))
	equinox, ok := solarTermDate(2024, 0)
	require.True(t, ok)
	assert.Equal(t, "2024-03-20", equinox.Format(DateLayout))
}
