// Package timeline places date ranges as horizontal bars on a one-month
// window, clipping them at the month boundaries.
package timeline

import (
	"fmt"

	cerrors "cloudeng.io/errors"

	"calview/internal/dates"
	appLog "calview/internal/log"
)

// MissingStartDateError reports an item whose start accessor returned the
// zero Date. The item is left out of the layout.
type MissingStartDateError struct {
	// Index is the item's position in the input.
	Index int
}

func (e *MissingStartDateError) Error() string {
	return fmt.Sprintf("timeline: item %d has no start date", e.Index)
}

// Span is the clipped extent of a range in day units. LeftOffset is the
// zero-based column of the first visible day.
type Span struct {
	LeftOffset      int
	Width           int
	ContinuesBefore bool
	ContinuesAfter  bool
}

// Bar is one laid-out item.
type Bar[T any] struct {
	Span
	Item  T
	Start dates.Date
	// End is zero for an open-ended range.
	End dates.Date
}

// Day describes one column of the timeline header.
type Day struct {
	Day       int
	Date      dates.Date
	Weekday   int
	IsWeekend bool
	IsToday   bool
}

// Result is the laid-out month.
type Result[T any] struct {
	Period      dates.Period
	DaysInMonth int
	Today       dates.Date
	// TodayColumn is today's day of month, or 0 when today is outside the
	// period.
	TodayColumn int
	Days        []Day
	Bars        []Bar[T]
	// Skipped collects a *MissingStartDateError per dropped item, or is nil.
	Skipped error
}

// Empty reports whether no bar was laid out.
func (r Result[T]) Empty() bool {
	return len(r.Bars) == 0
}

// Clip computes the span of [start, end] inside p. A zero end is
// open-ended. ok is false when the range does not intersect the month or
// start is zero.
func Clip(p dates.Period, start, end dates.Date) (span Span, ok bool) {
	if start.IsZero() {
		return Span{}, false
	}
	monthStart, monthEnd := p.Start(), p.End()
	if start.After(monthEnd) {
		return Span{}, false
	}
	if !end.IsZero() && end.Before(monthStart) {
		return Span{}, false
	}

	n := p.DaysInMonth()

	span.ContinuesBefore = start.Before(monthStart)
	effStart := start.Day
	if span.ContinuesBefore {
		effStart = 1
	}

	span.ContinuesAfter = end.IsZero() || end.After(monthEnd)
	effEnd := n
	if !span.ContinuesAfter {
		effEnd = end.Day
	}

	span.LeftOffset = effStart - 1
	span.Width = max(effEnd-effStart+1, 1)
	return span, true
}

// Layout lays out items for p using the current local date for today
// highlighting.
func Layout[T any](p dates.Period, items []T, startOf, endOf func(T) dates.Date) (Result[T], error) {
	return LayoutAt(p, items, startOf, endOf, dates.Today())
}

// LayoutAt is Layout with an explicit today. Items keep input order. Items
// outside the month are excluded silently; items without a start are
// logged, recorded in Result.Skipped, and excluded.
func LayoutAt[T any](p dates.Period, items []T, startOf, endOf func(T) dates.Date, today dates.Date) (Result[T], error) {
	if err := p.Validate(); err != nil {
		return Result[T]{}, err
	}

	n := p.DaysInMonth()
	res := Result[T]{
		Period:      p,
		DaysInMonth: n,
		Today:       today,
		Days:        header(p, today),
		Bars:        make([]Bar[T], 0, len(items)),
	}
	if p.Contains(today) {
		res.TodayColumn = today.Day
	}

	var skipped cerrors.M
	for i, item := range items {
		start := startOf(item)
		if start.IsZero() {
			err := &MissingStartDateError{Index: i}
			appLog.Error("timeline: skipping item", err, "period", p.String(), "index", i)
			skipped.Append(err)
			continue
		}
		end := endOf(item)
		span, ok := Clip(p, start, end)
		if !ok {
			continue
		}
		res.Bars = append(res.Bars, Bar[T]{
			Span:  span,
			Item:  item,
			Start: start,
			End:   end,
		})
	}
	res.Skipped = skipped.Err()
	return res, nil
}

func header(p dates.Period, today dates.Date) []Day {
	n := p.DaysInMonth()
	first := p.FirstWeekday()
	days := make([]Day, n)
	for i := range days {
		wd := (first + i) % 7
		d := p.Day(i + 1)
		days[i] = Day{
			Day:       i + 1,
			Date:      d,
			Weekday:   wd,
			IsWeekend: dates.IsWeekend(wd),
			IsToday:   d == today,
		}
	}
	return days
}
