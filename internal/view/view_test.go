package view_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calview/internal/dates"
	"calview/internal/grid"
	"calview/internal/timeline"
	"calview/internal/view"
)

type item struct {
	id         string
	title      string
	start, end dates.Date
}

func startOf(i item) dates.Date { return i.start }
func endOf(i item) dates.Date   { return i.end }
func keyOf(i item) string       { return i.id }

func d(s string) dates.Date { return dates.MustParse(s) }

func TestCalendarEmptyMonth(t *testing.T) {
	p := dates.Period{Year: 2025, Month: time.February}
	g, err := grid.BuildAt[item](p, nil, startOf, dates.Date{})
	require.NoError(t, err)

	v := view.Calendar(g, view.CalendarOptions[item, string]{
		Common: view.Common[item, string]{Placeholder: "no events this month"},
	})
	assert.True(t, v.Empty)
	assert.Equal(t, "no events this month", v.Placeholder)
	assert.Equal(t, "February 2025", v.Label)
	assert.Len(t, v.Weeks, 5)
	assert.Equal(t, -1, v.TodayRow)
	assert.Equal(t, -1, v.TodayCol)
	for _, week := range v.Weeks {
		for _, cell := range week {
			assert.Zero(t, cell.Count)
			assert.Empty(t, cell.Cards)
		}
	}
}

func TestCalendarFourRowMonthIsEmpty(t *testing.T) {
	p := dates.Period{Year: 2026, Month: time.February}
	g, err := grid.BuildAt[item](p, nil, startOf, dates.Date{})
	require.NoError(t, err)

	v := view.Calendar(g, view.CalendarOptions[item, string]{})
	assert.Len(t, v.Weeks, 4)
	assert.True(t, v.Empty)
}

func TestCalendarCards(t *testing.T) {
	p := dates.Period{Year: 2025, Month: time.March}
	items := []item{
		{id: "e1", title: "Standup", start: d("2025-03-18")},
		{id: "e2", title: "Retro", start: d("2025-03-18")},
		{id: "e3", title: "Outside", start: d("2025-04-01")},
	}
	g, err := grid.BuildAt(p, items, startOf, d("2025-03-18"))
	require.NoError(t, err)

	var selected []string
	v := view.Calendar(g, view.CalendarOptions[item, string]{
		Common: view.Common[item, string]{
			Key:         keyOf,
			OnSelect:    func(i item) { selected = append(selected, i.id) },
			Placeholder: "unused",
			MonthLabel:  func(p dates.Period) string { return fmt.Sprintf("%d年%d月", p.Year, p.Month) },
		},
		Card:          func(i item, idx int) string { return fmt.Sprintf("%d:%s", idx, i.title) },
		WeekdayLabels: []string{"日", "月", "火", "水", "木", "金", "土"},
	})

	assert.False(t, v.Empty)
	assert.Empty(t, v.Placeholder)
	assert.Equal(t, "2025年3月", v.Label)
	require.Len(t, v.Headers, 7)
	assert.Equal(t, "日", v.Headers[0].Label)
	assert.True(t, v.Headers[0].IsWeekend)
	assert.True(t, v.Headers[6].IsWeekend)
	assert.False(t, v.Headers[3].IsWeekend)

	require.GreaterOrEqual(t, v.TodayRow, 0)
	cell := v.Weeks[v.TodayRow][v.TodayCol]
	assert.True(t, cell.IsToday)
	assert.Equal(t, 18, cell.Day)
	assert.Equal(t, 2, cell.Count)
	require.Len(t, cell.Cards, 2)
	assert.Equal(t, "e1", cell.Cards[0].Key)
	assert.Equal(t, "0:Standup", cell.Cards[0].Content)
	assert.Equal(t, "1:Retro", cell.Cards[1].Content)

	cell.Cards[1].Select()
	cell.Cards[0].Select()
	assert.Equal(t, []string{"e2", "e1"}, selected)
}

func TestCalendarDefaultsWithoutRenderers(t *testing.T) {
	p := dates.Period{Year: 2025, Month: time.March}
	g, err := grid.BuildAt(p, []item{{id: "x", start: d("2025-03-01")}}, startOf, dates.Date{})
	require.NoError(t, err)

	v := view.Calendar(g, view.CalendarOptions[item, string]{WeekdayLabels: []string{"too", "short"}})
	assert.Equal(t, "Sun", v.Headers[0].Label)

	cell := v.Weeks[0][6]
	require.Len(t, cell.Cards, 1)
	assert.Equal(t, "0", cell.Cards[0].Key)
	assert.Nil(t, cell.Cards[0].Select)
	assert.Empty(t, cell.Cards[0].Content)
}

func TestTimelineView(t *testing.T) {
	p := dates.Period{Year: 2025, Month: time.March}
	items := []item{
		{id: "g1", title: "Learn Go", start: d("2025-02-20"), end: d("2025-03-05")},
		{id: "g2", title: "Run 5k", start: d("2025-03-10")},
	}
	res, err := timeline.LayoutAt(p, items, startOf, endOf, d("2025-03-18"))
	require.NoError(t, err)

	var clicked string
	v := view.Timeline(res, view.TimelineOptions[item, string]{
		Common: view.Common[item, string]{
			Key:      keyOf,
			OnSelect: func(i item) { clicked = i.id },
		},
		Label: func(i item) string { return i.title },
		Bar: func(i item, g view.Geometry) string {
			return fmt.Sprintf("%s@%d+%d", i.id, g.Left, g.Width)
		},
		CellWidth: 42,
	})

	assert.False(t, v.Empty)
	assert.Equal(t, 42, v.CellWidth)
	assert.Equal(t, 31*42, v.TotalWidth)
	assert.Equal(t, 18, v.TodayColumn)
	assert.Equal(t, 17*42, v.TodayLeft)
	require.Len(t, v.Days, 31)
	require.Len(t, v.Rows, 2)

	first := v.Rows[0]
	assert.Equal(t, "g1", first.Key)
	assert.Equal(t, "Learn Go", first.Label)
	assert.False(t, first.Striped)
	assert.True(t, first.Custom)
	assert.Equal(t, "g1@0+210", first.Bar)
	assert.False(t, first.Geometry.RoundedStart)
	assert.True(t, first.Geometry.RoundedEnd)
	assert.Equal(t, 4, first.Geometry.InsetLeft)
	assert.Equal(t, 202, first.Geometry.InsetWidth)

	second := v.Rows[1]
	assert.True(t, second.Striped)
	assert.Equal(t, 9*42, second.Geometry.Left)
	assert.Equal(t, 22*42, second.Geometry.Width)
	assert.True(t, second.Geometry.RoundedStart)
	assert.False(t, second.Geometry.RoundedEnd)

	second.Select()
	assert.Equal(t, "g2", clicked)
}

func TestTimelineViewEmpty(t *testing.T) {
	p := dates.Period{Year: 2025, Month: time.March}
	items := []item{{id: "old", start: d("2025-01-01"), end: d("2025-01-31")}}
	res, err := timeline.LayoutAt(p, items, startOf, endOf, d("2025-04-01"))
	require.NoError(t, err)

	v := view.Timeline(res, view.TimelineOptions[item, string]{
		Common: view.Common[item, string]{Placeholder: "no goals this month"},
	})
	assert.True(t, v.Empty)
	assert.Equal(t, "no goals this month", v.Placeholder)
	assert.Equal(t, view.DefaultCellWidth, v.CellWidth)
	assert.Equal(t, -1, v.TodayLeft)
	assert.Empty(t, v.Rows)
}

func TestPlace(t *testing.T) {
	g := view.Place(timeline.Span{LeftOffset: 2, Width: 1}, 10, 6)
	assert.Equal(t, 20, g.Left)
	assert.Equal(t, 10, g.Width)
	assert.Equal(t, 26, g.InsetLeft)
	assert.Equal(t, 1, g.InsetWidth)
	assert.True(t, g.RoundedStart)
	assert.True(t, g.RoundedEnd)
}
