package dates

import (
	"errors"
	"fmt"
)

var errEmpty = errors.New("empty date")

// InvalidDateError reports a string that does not name a valid calendar date.
type InvalidDateError struct {
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: %v", e.Value, e.Err)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}

// InvalidPeriodError reports a month outside 1-12.
type InvalidPeriodError struct {
	Year  int
	Month int
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid period %d-%02d: month must be in 1-12", e.Year, e.Month)
}
