package view

import (
	"calview/internal/dates"
	"calview/internal/grid"
)

// CalendarOptions configures Calendar.
type CalendarOptions[T any, R any] struct {
	Common[T, R]
	// Card renders one item of a cell; index is its position in the cell.
	Card func(item T, index int) R
	// WeekdayLabels are the seven column titles, Sunday first.
	WeekdayLabels []string
}

// Card is a rendered item inside a cell.
type Card[R any] struct {
	Key     string
	Content R
	// Select invokes the caller's OnSelect for this item; nil when unset.
	Select func() `json:"-"`
}

// CellView is a display-ready grid cell.
type CellView[R any] struct {
	Day       int
	Date      dates.Date
	IsPadding bool
	IsToday   bool
	IsWeekend bool
	Count     int
	Cards     []Card[R]
}

// CalendarView is the display-ready month grid.
type CalendarView[R any] struct {
	Period  dates.Period
	Label   string
	Headers []Header
	Weeks   [][grid.DaysPerWeek]CellView[R]
	// TodayRow and TodayCol locate today's cell; both are -1 when today is
	// outside the period.
	TodayRow int
	TodayCol int
	// Empty is set when no item falls in the period; the renderer shows
	// Placeholder instead of the weeks.
	Empty       bool
	Placeholder R
}

// Calendar assembles g into a CalendarView.
func Calendar[T any, R any](g grid.Grid[T], opts CalendarOptions[T, R]) CalendarView[R] {
	v := CalendarView[R]{
		Period:   g.Period,
		Label:    opts.label(g.Period),
		Headers:  headers(opts.WeekdayLabels),
		Weeks:    make([][grid.DaysPerWeek]CellView[R], len(g.Weeks)),
		TodayRow: -1,
		TodayCol: -1,
		Empty:    g.Empty(),
	}
	if v.Empty {
		v.Placeholder = opts.Placeholder
	}
	if row, col, ok := g.TodayCell(); ok {
		v.TodayRow, v.TodayCol = row, col
	}

	for r, week := range g.Weeks {
		for c, cell := range week {
			cv := CellView[R]{
				Day:       cell.Day,
				Date:      cell.Date,
				IsPadding: cell.IsPadding(),
				IsToday:   cell.IsToday,
				IsWeekend: cell.IsWeekend,
				Count:     len(cell.Items),
			}
			if len(cell.Items) > 0 {
				cv.Cards = make([]Card[R], len(cell.Items))
				for i, item := range cell.Items {
					card := Card[R]{
						Key:    opts.key(item, i),
						Select: opts.selector(item),
					}
					if opts.Card != nil {
						card.Content = opts.Card(item, i)
					}
					cv.Cards[i] = card
				}
			}
			v.Weeks[r][c] = cv
		}
	}
	return v
}
