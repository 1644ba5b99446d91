package grid_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calview/internal/dates"
	"calview/internal/grid"
)

type event struct {
	id   string
	date dates.Date
}

func dateOf(e event) dates.Date { return e.date }

func period(year int, month time.Month) dates.Period {
	return dates.Period{Year: year, Month: month}
}

func TestBuildCoversEveryDayOnce(t *testing.T) {
	for year := 2023; year <= 2026; year++ {
		for m := time.January; m <= time.December; m++ {
			p := period(year, m)
			g, err := grid.BuildAt[event](p, nil, dateOf, dates.Date{})
			require.NoError(t, err)

			var days []int
			for _, week := range g.Weeks {
				for col, cell := range week {
					assert.Equal(t, col, cell.Weekday)
					assert.Equal(t, col == 0 || col == 6, cell.IsWeekend)
					if !cell.IsPadding() {
						days = append(days, cell.Day)
						assert.Equal(t, p.Day(cell.Day), cell.Date)
					}
				}
			}

			n := dates.DaysInMonth(year, m)
			require.Len(t, days, n, "%v", p)
			for i, d := range days {
				require.Equal(t, i+1, d, "%v", p)
			}

			// No fully blank trailing row.
			last := g.Weeks[len(g.Weeks)-1]
			assert.False(t, allPadding(last), "%v", p)
			assert.GreaterOrEqual(t, len(g.Weeks), 4)
			assert.LessOrEqual(t, len(g.Weeks), grid.MaxWeeks)
		}
	}
}

func allPadding(w grid.Week[event]) bool {
	for _, c := range w {
		if !c.IsPadding() {
			return false
		}
	}
	return true
}

func TestBuildRowCounts(t *testing.T) {
	tests := []struct {
		name string
		p    dates.Period
		rows int
	}{
		{"feb 2026 starts on sunday", period(2026, time.February), 4},
		{"feb 2025 starts on saturday", period(2025, time.February), 5},
		{"march 2025", period(2025, time.March), 6},
		{"august 2025 starts on friday", period(2025, time.August), 6},
		{"june 2025", period(2025, time.June), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := grid.BuildAt[event](tt.p, nil, dateOf, dates.Date{})
			require.NoError(t, err)
			assert.Len(t, g.Weeks, tt.rows)
		})
	}
}

func TestBuildFirstRowPadding(t *testing.T) {
	g, err := grid.BuildAt[event](period(2025, time.February), nil, dateOf, dates.Date{})
	require.NoError(t, err)
	for col := 0; col < 6; col++ {
		assert.True(t, g.Weeks[0][col].IsPadding())
	}
	assert.Equal(t, 1, g.Weeks[0][6].Day)
	assert.Equal(t, 2, g.Weeks[1][0].Day)
}

func TestBuildEmptyMonth(t *testing.T) {
	g, err := grid.BuildAt[event](period(2025, time.February), nil, dateOf, dates.Date{})
	require.NoError(t, err)
	assert.True(t, g.Empty())
	for _, week := range g.Weeks {
		for _, cell := range week {
			assert.Empty(t, cell.Items)
		}
	}
}

func TestBuildBucketsItems(t *testing.T) {
	p := period(2025, time.March)
	items := []event{
		{"a", dates.New(2025, time.March, 10)},
		{"outside-before", dates.New(2025, time.February, 28)},
		{"b", dates.New(2025, time.March, 1)},
		{"c", dates.New(2025, time.March, 10)},
		{"outside-after", dates.New(2025, time.April, 1)},
		{"no-date", dates.Date{}},
		{"d", dates.New(2025, time.March, 31)},
	}

	g, err := grid.BuildAt(p, items, dateOf, dates.Date{})
	require.NoError(t, err)
	assert.Equal(t, 4, g.Placed)

	seen := map[string]int{}
	for _, week := range g.Weeks {
		for _, cell := range week {
			for _, it := range cell.Items {
				seen[it.id]++
				assert.Equal(t, it.date, cell.Date)
				assert.Equal(t, it.date.Day, cell.Day)
			}
		}
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1, "d": 1}, seen)

	cell, ok := g.Cell(10)
	require.True(t, ok)
	require.Len(t, cell.Items, 2)
	assert.Equal(t, "a", cell.Items[0].id)
	assert.Equal(t, "c", cell.Items[1].id)
}

func TestBuildToday(t *testing.T) {
	p := period(2025, time.March)
	today := dates.New(2025, time.March, 18)

	g, err := grid.BuildAt[event](p, nil, dateOf, today)
	require.NoError(t, err)

	count := 0
	for _, week := range g.Weeks {
		for _, cell := range week {
			if cell.IsToday {
				count++
				assert.Equal(t, 18, cell.Day)
			}
		}
	}
	assert.Equal(t, 1, count)

	row, col, ok := g.TodayCell()
	require.True(t, ok)
	assert.Equal(t, 18, g.Weeks[row][col].Day)

	other, err := grid.BuildAt[event](period(2025, time.April), nil, dateOf, today)
	require.NoError(t, err)
	_, _, ok = other.TodayCell()
	assert.False(t, ok)
}

func TestBuildIdempotent(t *testing.T) {
	p := period(2025, time.May)
	items := []event{
		{"a", dates.New(2025, time.May, 5)},
		{"b", dates.New(2025, time.May, 5)},
		{"c", dates.New(2025, time.May, 20)},
	}
	today := dates.New(2025, time.May, 20)

	first, err := grid.BuildAt(p, items, dateOf, today)
	require.NoError(t, err)
	second, err := grid.BuildAt(p, items, dateOf, today)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildInvalidPeriod(t *testing.T) {
	_, err := grid.Build[event](dates.Period{Year: 2025, Month: 13}, nil, dateOf)
	var invalid *dates.InvalidPeriodError
	assert.ErrorAs(t, err, &invalid)
}

func TestBuildDropsUnparseableDates(t *testing.T) {
	type row struct{ scheduled string }
	items := []row{{"2025-04-30"}, {"2025-04-31"}}

	g, err := grid.BuildAt(period(2025, time.April), items, dates.Field(func(r row) string { return r.scheduled }), dates.Date{})
	require.NoError(t, err)
	assert.Equal(t, 1, g.Placed)

	cell, ok := g.Cell(30)
	require.True(t, ok)
	assert.Len(t, cell.Items, 1)
}

func TestCellOutOfRange(t *testing.T) {
	g, err := grid.BuildAt[event](period(2025, time.February), nil, dateOf, dates.Date{})
	require.NoError(t, err)
	_, ok := g.Cell(0)
	assert.False(t, ok)
	_, ok = g.Cell(29)
	assert.False(t, ok)
}
