// ABOUTME: Per-day completed/possible summary across all recorded days
// ABOUTME: One catalog read plus one aggregate query, composed by a pure function

package habits

import (
	"context"
	"fmt"

	"github.com/2389/habitd/internal/calendar"
	"github.com/2389/habitd/internal/store"
)

// SummaryEntry is the completion ratio input for one Day.
// Counts are float64 so consumers can divide them directly.
type SummaryEntry struct {
	DayID     string
	Date      calendar.Date
	Completed float64
	Possible  float64
}

// Ratio returns Completed/Possible, or 0 when nothing was possible.
func (e SummaryEntry) Ratio() float64 {
	if e.Possible == 0 {
		return 0
	}
	return e.Completed / e.Possible
}

// Summarize pairs each day's completion count with the number of habits
// possible on it. Output order follows counts.
func Summarize(habits []*store.Habit, counts []store.DayCompletionCount) []SummaryEntry {
	entries := make([]SummaryEntry, 0, len(counts))
	for _, c := range counts {
		possible := 0
		for _, h := range habits {
			if IsPossible(h, c.Date) {
				possible++
			}
		}
		entries = append(entries, SummaryEntry{
			DayID:     c.DayID,
			Date:      c.Date,
			Completed: float64(c.Completed),
			Possible:  float64(possible),
		})
	}
	return entries
}

// Summary returns one entry per Day row, ordered by date.
func (s *Service) Summary(ctx context.Context) ([]SummaryEntry, error) {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}

	counts, err := s.store.ListDayCompletionCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing day completion counts: %w", err)
	}

	return Summarize(habits, counts), nil
}
