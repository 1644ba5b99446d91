// Package dates provides the civil-date arithmetic shared by the calendar
// grid and timeline layouts: month length, weekday of the first, today, and
// ISO date parsing.
package dates

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"cloudeng.io/datetime"

	appLog "calview/internal/log"
)

// ISOLayout is the wire format of a date: YYYY-MM-DD.
const ISOLayout = "2006-01-02"

// Date is a calendar date without a time component. The zero Date means
// "no date" (an absent start or an open end).
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns the Date for year, month, day. Out-of-range values are
// normalized the way time.Date normalizes them.
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the date part of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current date in the local timezone. It is not cached;
// callers that need one stable value per render resolve it once.
func Today() Date {
	return TodayIn(time.Local)
}

// TodayIn returns the current date in loc.
func TodayIn(loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return FromTime(time.Now().In(loc))
}

// Parse parses an ISO date (2006-01-02). RFC 3339 timestamps are accepted
// too and contribute the date in their own offset. Strings that do not name
// a real calendar date, such as 2025-04-31, fail with *InvalidDateError.
func Parse(s string) (Date, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return Date{}, &InvalidDateError{Value: s, Err: errEmpty}
	}
	if t, err := time.Parse(ISOLayout, v); err == nil {
		return FromTime(t), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return Date{}, &InvalidDateError{Value: s, Err: err}
	}
	return FromTime(t), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Field adapts a string accessor into a Date accessor. Empty strings yield
// the zero Date. Unparseable strings are logged and also yield the zero
// Date, so the item drops out of any layout instead of failing the render.
func Field[T any](get func(T) string) func(T) Date {
	return func(item T) Date {
		s := get(item)
		if strings.TrimSpace(s) == "" {
			return Date{}
		}
		d, err := Parse(s)
		if err != nil {
			appLog.Error("dates: dropping item with unparseable date", err, "value", s)
			return Date{}
		}
		return d
	}
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	if c := cmp.Compare(d.Year, o.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(d.Month, o.Month); c != 0 {
		return c
	}
	return cmp.Compare(d.Day, o.Day)
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// Weekday returns the day of the week, Sunday = 0.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time(time.UTC).AddDate(0, 0, n))
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// String formats d as YYYY-MM-DD; the zero Date formats as "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields the
// zero Date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*d = Date{}
		return nil
	}
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// DaysInMonth returns the number of days in month of year, accounting for
// leap years. It returns 0 for a month outside 1-12.
func DaysInMonth(year int, month time.Month) int {
	if month < time.January || month > time.December {
		return 0
	}
	return datetime.DaysInMonth(year, datetime.Month(month))
}

// FirstWeekday returns the weekday of the first day of month, Sunday = 0.
func FirstWeekday(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// IsWeekend reports whether a Sunday-indexed weekday column is Sunday or
// Saturday.
func IsWeekend(weekday int) bool {
	return weekday == int(time.Sunday) || weekday == int(time.Saturday)
}
