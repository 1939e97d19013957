// ABOUTME: Scheduling rules deciding which habits are due on a date
// ABOUTME: Pure filters plus the Service methods behind GET /day

package habits

import (
	"context"
	"errors"
	"fmt"

	"github.com/2389/habitd/internal/calendar"
	"github.com/2389/habitd/internal/store"
)

// IsPossible reports whether h is scheduled on d.
func IsPossible(h *store.Habit, d calendar.Date) bool {
	return !d.Before(h.CreatedAt) && h.WeekDays.Contains(d.Weekday())
}

// Possible returns the habits scheduled on d, preserving input order.
func Possible(habits []*store.Habit, d calendar.Date) []*store.Habit {
	out := []*store.Habit{}
	for _, h := range habits {
		if IsPossible(h, d) {
			out = append(out, h)
		}
	}
	return out
}

// DayView is everything the client needs to render one date.
type DayView struct {
	Date              calendar.Date
	PossibleHabits    []*store.Habit
	CompletedHabitIDs []string
}

// PossibleHabits returns the habits scheduled on date.
func (s *Service) PossibleHabits(ctx context.Context, date calendar.Date) ([]*store.Habit, error) {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	return Possible(habits, date), nil
}

// Day returns the habits scheduled on date and the ids of those completed.
// A date without a Day row has no completions.
func (s *Service) Day(ctx context.Context, date calendar.Date) (*DayView, error) {
	possible, err := s.PossibleHabits(ctx, date)
	if err != nil {
		return nil, err
	}

	view := &DayView{
		Date:              date,
		PossibleHabits:    possible,
		CompletedHabitIDs: []string{},
	}

	day, err := s.store.GetDayByDate(ctx, date)
	if errors.Is(err, store.ErrNotFound) {
		return view, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting day: %w", err)
	}

	completed, err := s.store.ListCompletedHabitIDs(ctx, day.ID)
	if err != nil {
		return nil, fmt.Errorf("listing completed habits: %w", err)
	}
	view.CompletedHabitIDs = nonNil(completed)
	return view, nil
}
