package dates_test

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calview/internal/dates"
	appLog "calview/internal/log"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.January, 31},
		{2025, time.February, 28},
		{2024, time.February, 29},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2025, time.April, 30},
		{2025, time.December, 31},
		{2025, 0, 0},
		{2025, 13, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dates.DaysInMonth(tt.year, tt.month), "%d-%02d", tt.year, tt.month)
	}
}

func TestDaysInMonthMatchesTime(t *testing.T) {
	for year := 1999; year <= 2030; year++ {
		for m := time.January; m <= time.December; m++ {
			want := time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
			require.Equal(t, want, dates.DaysInMonth(year, m), "%d-%02d", year, m)
		}
	}
}

func TestFirstWeekday(t *testing.T) {
	assert.Equal(t, 6, dates.FirstWeekday(2025, time.February)) // Saturday
	assert.Equal(t, 3, dates.FirstWeekday(2025, time.January))  // Wednesday
	assert.Equal(t, 0, dates.FirstWeekday(2026, time.February)) // Sunday
	assert.Equal(t, 2, dates.FirstWeekday(2025, time.April))    // Tuesday
}

func TestParse(t *testing.T) {
	d, err := dates.Parse("2025-02-03")
	require.NoError(t, err)
	assert.Equal(t, dates.Date{Year: 2025, Month: time.February, Day: 3}, d)

	d, err = dates.Parse("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day)

	d, err = dates.Parse("2025-03-10T23:30:00+09:00")
	require.NoError(t, err)
	assert.Equal(t, dates.New(2025, time.March, 10), d)

	for _, bad := range []string{"", "  ", "2025-04-31", "2025-02-29", "2025-13-01", "not a date", "2025/01/01"} {
		_, err := dates.Parse(bad)
		var invalid *dates.InvalidDateError
		require.ErrorAs(t, err, &invalid, bad)
		assert.Equal(t, bad, invalid.Value)
	}
}

func TestCompare(t *testing.T) {
	a := dates.New(2025, time.January, 28)
	b := dates.New(2025, time.February, 3)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -1, dates.New(2024, time.December, 31).Compare(a))
}

func TestDateHelpers(t *testing.T) {
	d := dates.New(2025, time.February, 28)
	assert.Equal(t, dates.New(2025, time.March, 1), d.AddDays(1))
	assert.Equal(t, time.Friday, d.Weekday())
	assert.Equal(t, "2025-02-28", d.String())
	assert.Equal(t, "", dates.Date{}.String())
	assert.True(t, dates.Date{}.IsZero())

	var parsed dates.Date
	require.NoError(t, parsed.UnmarshalText([]byte("2025-02-28")))
	assert.Equal(t, d, parsed)
	require.NoError(t, parsed.UnmarshalText(nil))
	assert.True(t, parsed.IsZero())
}

func TestToday(t *testing.T) {
	before := dates.FromTime(time.Now())
	today := dates.Today()
	after := dates.FromTime(time.Now())
	assert.True(t, today == before || today == after)
}

func TestField(t *testing.T) {
	var buf bytes.Buffer
	appLog.SetOutput(&buf)
	t.Cleanup(func() { appLog.SetOutput(os.Stderr) })

	type item struct{ when string }
	field := dates.Field(func(i item) string { return i.when })

	assert.Equal(t, dates.New(2025, time.April, 30), field(item{"2025-04-30"}))
	assert.True(t, field(item{""}).IsZero())
	assert.True(t, field(item{"2025-04-31"}).IsZero())
	assert.Contains(t, buf.String(), "2025-04-31")
}

func TestIsWeekend(t *testing.T) {
	for wd := 0; wd < 7; wd++ {
		assert.Equal(t, wd == 0 || wd == 6, dates.IsWeekend(wd), wd)
	}
}
