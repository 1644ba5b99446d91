package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is the (year, month) window a view is rendered for. The window is
// [Start, End], whole days, inclusive.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod validates month and returns the Period.
func NewPeriod(year, month int) (Period, error) {
	p := Period{Year: year, Month: time.Month(month)}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// PeriodOf returns the Period containing d.
func PeriodOf(d Date) Period {
	return Period{Year: d.Year, Month: d.Month}
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("invalid period %q, expected YYYY-MM", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("invalid period year %q: %w", parts[0], err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Period{}, fmt.Errorf("invalid period month %q: %w", parts[1], err)
	}
	return NewPeriod(year, month)
}

// Validate fails with *InvalidPeriodError when Month is outside 1-12.
func (p Period) Validate() error {
	if p.Month < time.January || p.Month > time.December {
		return &InvalidPeriodError{Year: p.Year, Month: int(p.Month)}
	}
	return nil
}

func (p Period) DaysInMonth() int {
	return DaysInMonth(p.Year, p.Month)
}

func (p Period) FirstWeekday() int {
	return FirstWeekday(p.Year, p.Month)
}

// Start is the first day of the month.
func (p Period) Start() Date {
	return Date{Year: p.Year, Month: p.Month, Day: 1}
}

// End is the last day of the month.
func (p Period) End() Date {
	return Date{Year: p.Year, Month: p.Month, Day: p.DaysInMonth()}
}

// Day returns the date of day within the month.
func (p Period) Day(day int) Date {
	return Date{Year: p.Year, Month: p.Month, Day: day}
}

// Contains reports whether d falls inside the month.
func (p Period) Contains(d Date) bool {
	return d.Year == p.Year && d.Month == p.Month && d.Day >= 1 && d.Day <= p.DaysInMonth()
}

// Next returns the following month, wrapping into the next year.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Prev returns the preceding month, wrapping into the previous year.
func (p Period) Prev() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// String formats p as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
