// ABOUTME: Sentinel errors returned by the habits service
// ABOUTME: Callers match them with errors.Is

package habits

import "errors"

var (
	// ErrHabitNotFound is returned when an operation names an unknown habit.
	ErrHabitNotFound = errors.New("habit not found")

	// ErrInvalidHabit is returned when a habit definition fails validation.
	ErrInvalidHabit = errors.New("invalid habit")
)
