// Package grid lays a month out as a calendar matrix of weeks by weekdays
// and buckets items into the cell of their date.
package grid

import (
	"calview/internal/dates"
)

const (
	// MaxWeeks is the most rows any month needs.
	MaxWeeks = 6
	// DaysPerWeek is the number of columns, Sunday first.
	DaysPerWeek = 7
)

// Cell is one slot of the grid. Padding cells before day 1 and after the
// last day have Day == 0 and no items.
type Cell[T any] struct {
	Day       int
	Date      dates.Date
	Weekday   int
	IsToday   bool
	IsWeekend bool
	Items     []T
}

// IsPadding reports whether the cell lies outside the month.
func (c Cell[T]) IsPadding() bool {
	return c.Day == 0
}

// Week is one row of the grid.
type Week[T any] [DaysPerWeek]Cell[T]

// Grid is the calendar matrix for a Period. It has between 4 and 6 weeks;
// rows after the one holding the last day are not emitted.
type Grid[T any] struct {
	Period      dates.Period
	DaysInMonth int
	Today       dates.Date
	Weeks       []Week[T]
	// Placed counts the items that landed in a cell.
	Placed int
}

// Build lays out p and buckets items by dateOf, using the current local
// date for today highlighting.
func Build[T any](p dates.Period, items []T, dateOf func(T) dates.Date) (Grid[T], error) {
	return BuildAt(p, items, dateOf, dates.Today())
}

// BuildAt is Build with an explicit today. Items whose date is zero or
// outside the month are dropped. Within a cell items keep input order.
func BuildAt[T any](p dates.Period, items []T, dateOf func(T) dates.Date, today dates.Date) (Grid[T], error) {
	if err := p.Validate(); err != nil {
		return Grid[T]{}, err
	}

	n := p.DaysInMonth()
	offset := p.FirstWeekday()

	byDay := make(map[int][]T)
	placed := 0
	for _, item := range items {
		d := dateOf(item)
		if !p.Contains(d) {
			continue
		}
		byDay[d.Day] = append(byDay[d.Day], item)
		placed++
	}

	g := Grid[T]{
		Period:      p,
		DaysInMonth: n,
		Today:       today,
		Weeks:       make([]Week[T], 0, MaxWeeks),
		Placed:      placed,
	}

	day := 1
	for week := 0; week < MaxWeeks && day <= n; week++ {
		var row Week[T]
		for col := 0; col < DaysPerWeek; col++ {
			cell := Cell[T]{
				Weekday:   col,
				IsWeekend: dates.IsWeekend(col),
			}
			if (week == 0 && col < offset) || day > n {
				row[col] = cell
				continue
			}
			cell.Day = day
			cell.Date = p.Day(day)
			cell.IsToday = cell.Date == today
			cell.Items = byDay[day]
			row[col] = cell
			day++
		}
		g.Weeks = append(g.Weeks, row)
	}
	return g, nil
}

// Empty reports whether no item was placed in the month.
func (g Grid[T]) Empty() bool {
	return g.Placed == 0
}

// Cell returns the cell holding day.
func (g Grid[T]) Cell(day int) (Cell[T], bool) {
	row, col, ok := g.position(day)
	if !ok {
		return Cell[T]{}, false
	}
	return g.Weeks[row][col], true
}

// TodayCell returns the row and column of today's cell, if today falls in
// the month.
func (g Grid[T]) TodayCell() (row, col int, ok bool) {
	if !g.Period.Contains(g.Today) {
		return 0, 0, false
	}
	return g.position(g.Today.Day)
}

func (g Grid[T]) position(day int) (row, col int, ok bool) {
	if day < 1 || day > g.DaysInMonth {
		return 0, 0, false
	}
	idx := g.Period.FirstWeekday() + day - 1
	row, col = idx/DaysPerWeek, idx%DaysPerWeek
	if row >= len(g.Weeks) {
		return 0, 0, false
	}
	return row, col, true
}
