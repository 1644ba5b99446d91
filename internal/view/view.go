// Package view assembles grid and timeline layouts into display-ready view
// models using caller-supplied renderers. R is whatever the rendering layer
// produces for a card, label or bar (a string, a styled block, a DTO).
package view

import (
	"fmt"
	"strconv"

	"calview/internal/dates"
)

// DefaultWeekdayLabels are used when the caller supplies none. Sunday first.
var DefaultWeekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Header is one weekday column header of the calendar.
type Header struct {
	Label     string
	Weekday   int
	IsWeekend bool
}

// Common holds the options both views share.
type Common[T any, R any] struct {
	// Key identifies an item; defaults to its input index.
	Key func(T) string
	// OnSelect, if set, is bound to each card or row as Select.
	OnSelect func(T)
	// Placeholder is shown instead of the grid or rows when nothing falls
	// in the period.
	Placeholder R
	// MonthLabel formats the period title; defaults to "February 2025".
	MonthLabel func(dates.Period) string
}

func (c Common[T, R]) key(item T, index int) string {
	if c.Key == nil {
		return strconv.Itoa(index)
	}
	return c.Key(item)
}

func (c Common[T, R]) selector(item T) func() {
	if c.OnSelect == nil {
		return nil
	}
	return func() { c.OnSelect(item) }
}

func (c Common[T, R]) label(p dates.Period) string {
	if c.MonthLabel != nil {
		return c.MonthLabel(p)
	}
	return MonthLabel(p)
}

// MonthLabel formats p as "February 2025".
func MonthLabel(p dates.Period) string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

func headers(labels []string) []Header {
	if len(labels) != 7 {
		labels = DefaultWeekdayLabels
	}
	out := make([]Header, len(labels))
	for i, l := range labels {
		out[i] = Header{Label: l, Weekday: i, IsWeekend: dates.IsWeekend(i)}
	}
	return out
}
