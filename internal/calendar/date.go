// ABOUTME: Calendar date value type with timezone-free weekday derivation
// ABOUTME: Converts instants to dates at exactly one place, FromTime

package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned when a string cannot be parsed as a calendar date.
var ErrInvalidDate = errors.New("invalid date")

// Layout is the canonical text form of a Date.
const Layout = "2006-01-02"

// Date is a day on the proleptic Gregorian calendar.
// The zero value is not a valid date; check with IsZero.
type Date struct {
	year  int
	month time.Month
	day   int
}

// New returns the date for year, month and day. Out-of-range values are
// normalized the way time.Date normalizes them (January 32 is February 1).
func New(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// FromTime returns the wall-clock date of t as observed in loc.
// A nil loc means UTC.
func FromTime(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Date{year: y, month: m, day: d}
}

// Today returns the current date in loc according to now.
func Today(now func() time.Time, loc *time.Location) Date {
	if now == nil {
		now = time.Now
	}
	return FromTime(now(), loc)
}

// Parse accepts either a plain YYYY-MM-DD date, which is taken literally,
// or a timestamp. Timestamps carrying an offset are converted into loc
// before truncation; timestamps without one are read as wall time in loc.
func Parse(s string, loc *time.Location) (Date, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(Layout, s); err == nil {
		return FromTime(t, time.UTC), nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t, loc), nil
		}
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return FromTime(t, loc), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// MustParse is Parse for literals in tests and fixtures. It panics on error.
func MustParse(s string) Date {
	d, err := Parse(s, time.UTC)
	if err != nil {
		panic(err)
	}
	return d
}

// Year returns the year of d.
func (d Date) Year() int { return d.year }

// Month returns the month of d.
func (d Date) Month() time.Month { return d.month }

// Day returns the day of the month of d.
func (d Date) Day() int { return d.day }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Weekday returns the day of the week, Sunday = 0.
// It depends only on the year, month and day fields.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Time returns midnight UTC at the start of d.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return New(d.year, d.month, d.day+n)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to
// or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.year != other.year:
		return sign(d.year - other.year)
	case d.month != other.month:
		return sign(int(d.month) - int(other.month))
	default:
		return sign(d.day - other.day)
	}
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Equal reports whether d and other are the same day.
func (d Date) Equal(other Date) bool { return d == other }

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only YYYY-MM-DD is accepted.
func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse(Layout, string(text))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, string(text))
	}
	*d = FromTime(t, time.UTC)
	return nil
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
