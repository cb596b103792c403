package holiday

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasterSunday(t *testing.T) {
	t.Parallel()

	tests := map[int]time.Time{
		2000: day(2000, time.April, 23),
		2019: day(2019, time.April, 21),
		2024: day(2024, time.March, 31),
		2025: day(2025, time.April, 20),
		2038: day(2038, time.April, 25),
	}
	for year, want := range tests {
		assert.Equal(t, want, easterSunday(year), "easter %d", year)
	}
}

func TestCountry_MultiDayAcrossYears(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"data/xx.yaml": {Data: []byte("code: XX\nholidays:\n  - name: Turn\n    kind: fixed\n    month: 12\n    day: 31\n    days: 2\n")},
	}
	countries, err := loadDataset(fsys)
	require.NoError(t, err)

	got := countries["XX"].Holidays(2025, "")
	require.Len(t, got, 2)
	assert.Equal(t, day(2025, time.January, 1), got[0].Date, "carried over from 2024")
	assert.Equal(t, day(2025, time.December, 31), got[1].Date)
}

func TestCountry_Gaps(t *testing.T) {
	t.Parallel()

	content := `code: XX
holidays:
  - name: Fixed
    kind: fixed
    month: 1
    day: 1
  - name: Listed
    kind: table
    dates:
      2024: "03-01"
  - name: Moon
    kind: lunar
    month: 1
    day: 1
  - name: Late
    kind: table
    from: 2030
    dates:
      2031: "05-01"
`
	countries, err := loadDataset(fstest.MapFS{"data/xx.yaml": {Data: []byte(content)}})
	require.NoError(t, err)
	c := countries["XX"]

	assert.Empty(t, c.Gaps(2024, ""))
	assert.Equal(t, []string{"Listed"}, c.Gaps(2025, ""))
	assert.Equal(t, []string{"Listed", "Moon", "Late"}, c.Gaps(2100, ""))
	// Late does not hold before 2030, so its missing entry is no gap
	assert.Equal(t, []string{"Listed", "Moon"}, c.Gaps(1900, ""))
	assert.Len(t, c.Holidays(2100, ""), 1)
}

func TestLoadDataset_Invalid(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"bad yaml":      "code: [",
		"no code":       "name: Nowhere\nholidays: []\n",
		"unknown kind":    "code: XX\nholidays:\n  - name: A\n    kind: nth_weekday\n",
		"bad table day":   "code: XX\nholidays:\n  - name: A\n    kind: table\n    dates:\n      2024: \"02-30\"\n",
		"bad month":       "code: XX\nholidays:\n  - name: A\n    kind: fixed\n    month: 13\n    day: 1\n",
		"bad lunar day":   "code: XX\nholidays:\n  - name: A\n    kind: lunar\n    month: 1\n    day: 31\n",
		"bad solar term":  "code: XX\nholidays:\n  - name: A\n    kind: solar_term\n    longitude: 20\n",
		"empty table":     "code: XX\nholidays:\n  - name: A\n    kind: table\n",
		"negative length": "code: XX\nholidays:\n  - name: A\n    kind: easter\n    days: -1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{"data/xx.yaml": {Data: []byte(content)}}
			_, err := loadDataset(fsys)
			assert.Error(t, err)
		})
	}
}

func TestLoadDataset_SkipsOtherFiles(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"data/README.md": {Data: []byte("not yaml")},
		"data/xx.yaml":   {Data: []byte("code: xx\nname: Testland\nholidays:\n  - name: Founding\n    kind: fixed\n    month: 2\n    day: 29\n")},
	}
	countries, err := loadDataset(fsys)
	require.NoError(t, err)
	require.Contains(t, countries, "XX")

	// Feb 29 only exists in leap years
	assert.Len(t, countries["XX"].Holidays(2024, ""), 1)
	assert.Empty(t, countries["XX"].Holidays(2023, ""))
}

func TestEmbeddedDataset(t *testing.T) {
	t.Parallel()

	countries, err := embeddedDataset()
	require.NoError(t, err)
	assert.Len(t, countries, 2)
	for _, code := range []string{"CN", "IN"} {
		c, ok := countries[code]
		require.True(t, ok, code)
		assert.NotEmpty(t, c.Rules, code)
		assert.NotEmpty(t, c.Holidays(2024, ""), code)
		assert.Empty(t, c.Gaps(2024, ""), code)
	}
}
