// ABOUTME: WeekdaySet is a normalized set of weekdays with Sunday = 0
// ABOUTME: Used as a habit's weekly recurrence mask

package calendar

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrInvalidWeekday is returned for weekday numbers outside 0..6.
var ErrInvalidWeekday = errors.New("invalid weekday")

// WeekdaySet holds distinct weekdays in ascending order.
type WeekdaySet []time.Weekday

// ParseWeekdays validates raw weekday numbers (0 = Sunday .. 6 = Saturday)
// and returns them as a normalized set. Duplicates collapse.
func ParseWeekdays(values []int) (WeekdaySet, error) {
	set := make(WeekdaySet, 0, len(values))
	for _, v := range values {
		if v < 0 || v > 6 {
			return nil, fmt.Errorf("%w: %d (must be 0-6)", ErrInvalidWeekday, v)
		}
		set = append(set, time.Weekday(v))
	}
	return set.Normalize(), nil
}

// Normalize returns a sorted copy of s without duplicates.
func (s WeekdaySet) Normalize() WeekdaySet {
	out := slices.Clone(s)
	if out == nil {
		out = WeekdaySet{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Validate reports the first weekday outside Sunday..Saturday.
func (s WeekdaySet) Validate() error {
	for _, wd := range s {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("%w: %d (must be 0-6)", ErrInvalidWeekday, int(wd))
		}
	}
	return nil
}

// Contains reports whether wd is in s.
func (s WeekdaySet) Contains(wd time.Weekday) bool {
	return slices.Contains(s, wd)
}

// Ints returns the weekdays as plain integers, for JSON and SQL.
func (s WeekdaySet) Ints() []int {
	out := make([]int, len(s))
	for i, wd := range s {
		out[i] = int(wd)
	}
	return out
}
