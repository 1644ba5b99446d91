package model

import (
	"fmt"
	"strings"

	"calview/internal/dates"
)

// Kind classifies a community item.
type Kind string

const (
	KindEvent      Kind = "event"
	KindGoal       Kind = "goal"
	KindAttendance Kind = "attendance"
)

// ParseKind maps a config/dataset string to a Kind. Empty means event.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindEvent, nil
	case KindEvent, KindGoal, KindAttendance:
		return k, nil
	default:
		return "", fmt.Errorf("unknown item kind %q", s)
	}
}

// Item is a single time-bound community item as the views see it: a
// scheduled event, a member goal, or an attendance record.
//
// Events and attendance records are placed in the calendar by Date. Goals
// (and multi-day events) are placed in the timeline by Start/End; a zero End
// means the item has no known end.
type Item struct {
	Key  string `yaml:"key" json:"key"`
	Kind Kind   `yaml:"kind" json:"kind"`

	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Location    string `yaml:"location,omitempty" json:"location,omitempty"`
	Owner       string `yaml:"owner,omitempty" json:"owner,omitempty"`

	// SourceID names the dataset source the item was loaded from.
	SourceID string `yaml:"-" json:"source_id"`

	Date  dates.Date `yaml:"date,omitempty" json:"date,omitempty"`
	Start dates.Date `yaml:"start,omitempty" json:"start,omitempty"`
	End   dates.Date `yaml:"end,omitempty" json:"end,omitempty"`

	Public bool `yaml:"public" json:"public"`
	Active bool `yaml:"active" json:"active"`
}

// Accessors used by the grid and timeline builders.

func DateOf(it Item) dates.Date {
	if !it.Date.IsZero() {
		return it.Date
	}
	return it.Start
}

func StartOf(it Item) dates.Date {
	if !it.Start.IsZero() {
		return it.Start
	}
	return it.Date
}

func EndOf(it Item) dates.Date {
	if !it.End.IsZero() {
		return it.End
	}
	// A dated event without a range occupies its own day; a goal without an
	// end stays open.
	if it.Kind != KindGoal && it.Start.IsZero() {
		return it.Date
	}
	return dates.Date{}
}

func KeyOf(it Item) string {
	return it.Key
}

// FilterKind returns the items of kind k, or all items when k is empty.
func FilterKind(items []Item, k Kind) []Item {
	if k == "" {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Kind == k {
			out = append(out, it)
		}
	}
	return out
}
