package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a date string cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar date without time of day.
// Year 0 means the year is unknown; month and day are always set for a valid date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate accepts YYYY-MM-DD, an RFC 3339 timestamp (date part only),
// or --MM-DD when the year is unknown.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}

	if rest, ok := strings.CutPrefix(s, "--"); ok {
		// 2000 is a leap year, so --02-29 is accepted.
		t, err := time.Parse(time.DateOnly, "2000-"+rest)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		return Date{Month: t.Month(), Day: t.Day()}, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, s)
		if tsErr != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		t = ts.UTC()
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// MustParseDate is like ParseDate but panics on error. For tests and constants.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool {
	return d.Month == 0 && d.Day == 0
}

// HasYear reports whether the year component is known.
func (d Date) HasYear() bool {
	return d.Year != 0
}

// OnDay reports whether d falls on the given month and day, in any year.
// A zero Date never matches.
func (d Date) OnDay(month time.Month, day int) bool {
	if d.IsZero() {
		return false
	}
	return d.Month == month && d.Day == day
}

// String formats d as YYYY-MM-DD, or --MM-DD when the year is unknown.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	if !d.HasYear() {
		return fmt.Sprintf("--%02d-%02d", int(d.Month), d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// ValidMonthDay reports whether month/day name a real calendar day in some year.
func ValidMonthDay(month time.Month, day int) bool {
	if month < time.January || month > time.December || day < 1 {
		return false
	}
	// Day 0 of the following month is the last day of month in leap year 2000.
	last := time.Date(2000, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return day <= last
}
