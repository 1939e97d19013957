// ABOUTME: Completion toggle with lazy Day creation and conflict retry
// ABOUTME: Each attempt is one store transaction; lost races are retried

package habits

import (
	"context"
	"errors"
	"fmt"

	"github.com/2389/habitd/internal/calendar"
	"github.com/2389/habitd/internal/metrics"
	"github.com/2389/habitd/internal/store"
)

// CompletionState is the outcome of a toggle.
type CompletionState bool

const (
	Uncompleted CompletionState = false
	Completed   CompletionState = true
)

func (c CompletionState) String() string {
	if c {
		return "completed"
	}
	return "uncompleted"
}

// errRetry marks an attempt that lost a race with a concurrent writer.
var errRetry = errors.New("concurrent toggle")

// Toggle flips the completion of habitID on date and returns the new state.
//
// If the habit does not exist, Toggle returns ErrHabitNotFound without
// touching the ledger. If every attempt loses a race, the returned error
// wraps store.ErrConflict.
func (s *Service) Toggle(ctx context.Context, habitID string, date calendar.Date) (CompletionState, error) {
	if _, err := s.GetHabit(ctx, habitID); err != nil {
		s.metrics.RecordToggle(metrics.ToggleFailed)
		return Uncompleted, err
	}

	for attempt := 1; attempt <= s.maxToggleAttempts; attempt++ {
		var state CompletionState
		err := s.store.WithTx(ctx, func(tx store.DayLedger) error {
			var err error
			state, err = s.toggleOnce(ctx, tx, habitID, date)
			return err
		})

		switch {
		case err == nil:
			s.metrics.RecordToggle(state.String())
			s.logger.Debug("toggled habit",
				"habit_id", habitID,
				"date", date,
				"state", state.String(),
				"attempt", attempt,
			)
			return state, nil

		case errors.Is(err, errRetry):
			s.metrics.RecordToggleConflict()
			s.logger.Warn("toggle conflict, retrying",
				"habit_id", habitID,
				"date", date,
				"attempt", attempt,
				"error", err,
			)
			if ctxErr := ctx.Err(); ctxErr != nil {
				s.metrics.RecordToggle(metrics.ToggleFailed)
				return Uncompleted, ctxErr
			}

		case errors.Is(err, store.ErrNotFound):
			// The habit vanished between the lookup and the insert.
			s.metrics.RecordToggle(metrics.ToggleFailed)
			return Uncompleted, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)

		default:
			s.metrics.RecordToggle(metrics.ToggleFailed)
			return Uncompleted, fmt.Errorf("toggling habit: %w", err)
		}
	}

	s.metrics.RecordToggle(metrics.ToggleFailed)
	return Uncompleted, fmt.Errorf("toggling habit %s on %s: giving up after %d attempts: %w",
		habitID, date, s.maxToggleAttempts, store.ErrConflict)
}

// toggleOnce runs one attempt inside tx. Errors wrapping errRetry mean the
// transaction should be rolled back and retried from the start.
func (s *Service) toggleOnce(ctx context.Context, tx store.DayLedger, habitID string, date calendar.Date) (CompletionState, error) {
	day, err := s.findOrCreateDay(ctx, tx, date)
	if err != nil {
		return Uncompleted, err
	}

	existing, err := tx.GetCompletion(ctx, day.ID, habitID)
	switch {
	case err == nil:
		err := tx.DeleteCompletion(ctx, existing.ID)
		if errors.Is(err, store.ErrNotFound) {
			return Uncompleted, fmt.Errorf("%w: completion already removed", errRetry)
		}
		if err != nil {
			return Uncompleted, fmt.Errorf("deleting completion: %w", err)
		}
		return Uncompleted, nil

	case errors.Is(err, store.ErrNotFound):
		err := tx.CreateCompletion(ctx, &store.Completion{
			ID:      s.newID(),
			DayID:   day.ID,
			HabitID: habitID,
		})
		if errors.Is(err, store.ErrConflict) {
			return Uncompleted, fmt.Errorf("%w: completion already exists", errRetry)
		}
		if err != nil {
			return Uncompleted, fmt.Errorf("creating completion: %w", err)
		}
		return Completed, nil

	default:
		return Uncompleted, fmt.Errorf("getting completion: %w", err)
	}
}

// findOrCreateDay returns the Day for date, creating it if this is the
// first completion on that date.
func (s *Service) findOrCreateDay(ctx context.Context, tx store.DayLedger, date calendar.Date) (*store.Day, error) {
	day, err := tx.GetDayByDate(ctx, date)
	if err == nil {
		return day, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("getting day: %w", err)
	}

	day = &store.Day{ID: s.newID(), Date: date}
	err = tx.CreateDay(ctx, day)
	if errors.Is(err, store.ErrConflict) {
		return nil, fmt.Errorf("%w: day already exists", errRetry)
	}
	if err != nil {
		return nil, fmt.Errorf("creating day: %w", err)
	}
	return day, nil
}
