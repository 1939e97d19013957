// ABOUTME: Store interfaces and data types for habitd persistence
// ABOUTME: Defines Habit, Day, Completion and the catalog/ledger contracts

package store

import (
	"context"
	"errors"

	"github.com/2389/habitd/internal/calendar"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness constraint,
// typically because a concurrent writer created the same row first.
var ErrConflict = errors.New("conflict")

// Habit is a recurring task with a weekly schedule.
type Habit struct {
	ID        string
	Title     string
	CreatedAt calendar.Date
	WeekDays  calendar.WeekdaySet
}

// Day is a calendar date that has had at least one completion recorded.
// Days are created lazily, on the first completion for their date.
type Day struct {
	ID   string
	Date calendar.Date
}

// Completion records that a habit was completed on a day.
// At most one Completion exists per (DayID, HabitID).
type Completion struct {
	ID      string
	DayID   string
	HabitID string
}

// DayCompletionCount is one row of the bulk per-day aggregate.
type DayCompletionCount struct {
	DayID     string
	Date      calendar.Date
	Completed int
}

// HabitCatalog holds habit definitions.
type HabitCatalog interface {
	// CreateHabit stores a new habit and its weekdays.
	CreateHabit(ctx context.Context, habit *Habit) error
	// GetHabit returns ErrNotFound for unknown ids.
	GetHabit(ctx context.Context, id string) (*Habit, error)
	// ListHabits returns every habit ordered by creation date, then id.
	ListHabits(ctx context.Context) ([]*Habit, error)
	// ListHabitsByTitlePrefix matches the prefix literally and case-sensitively.
	ListHabitsByTitlePrefix(ctx context.Context, prefix string) ([]*Habit, error)
}

// DayLedger maps calendar days to the habits completed on them.
type DayLedger interface {
	// GetDayByDate returns ErrNotFound if no Day exists for date.
	GetDayByDate(ctx context.Context, date calendar.Date) (*Day, error)
	// CreateDay returns ErrConflict if a Day already exists for day.Date.
	CreateDay(ctx context.Context, day *Day) error

	// GetCompletion returns ErrNotFound if the habit is not completed on the day.
	GetCompletion(ctx context.Context, dayID, habitID string) (*Completion, error)
	// CreateCompletion returns ErrConflict for a duplicate (day, habit) pair
	// and ErrNotFound if the day or habit does not exist.
	CreateCompletion(ctx context.Context, completion *Completion) error
	// DeleteCompletion returns ErrNotFound if no completion has this id.
	DeleteCompletion(ctx context.Context, id string) error

	// ListCompletedHabitIDs returns the ids of habits completed on a day.
	ListCompletedHabitIDs(ctx context.Context, dayID string) ([]string, error)
	// ListDayCompletionCounts returns one row per Day, ordered by date,
	// computed in a single round trip.
	ListDayCompletionCounts(ctx context.Context) ([]DayCompletionCount, error)
}

// Store is the full persistence surface used by habitd.
type Store interface {
	HabitCatalog
	DayLedger

	// WithTx runs fn against a ledger bound to one transaction. The
	// transaction commits if fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx DayLedger) error) error

	// Ping checks that the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store
	Close() error
}
