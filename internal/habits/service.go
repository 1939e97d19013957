// ABOUTME: Service is the habit core used by the HTTP layer and the CLI
// ABOUTME: Owns habit creation and lookup; scheduling, toggling and summary live alongside

package habits

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/2389/habitd/internal/calendar"
	"github.com/2389/habitd/internal/metrics"
	"github.com/2389/habitd/internal/store"
)

// DefaultMaxToggleAttempts bounds how often Toggle retries after a conflict.
const DefaultMaxToggleAttempts = 3

// Service implements the habit operations on top of a Store.
type Service struct {
	store             store.Store
	logger            *slog.Logger
	metrics           *metrics.Metrics
	newID             func() string
	maxToggleAttempts int
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator replaces the UUID generator used for new rows.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithMetrics records toggle and creation counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithMaxToggleAttempts sets how many times Toggle runs before giving up on
// repeated conflicts. Values below 1 are ignored.
func WithMaxToggleAttempts(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.maxToggleAttempts = n
		}
	}
}

// New creates a Service.
func New(st store.Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:             st,
		logger:            logger.With("component", "habits"),
		newID:             uuid.NewString,
		maxToggleAttempts: DefaultMaxToggleAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateHabit validates and stores a new habit active from createdAt.
func (s *Service) CreateHabit(ctx context.Context, title string, weekDays calendar.WeekdaySet, createdAt calendar.Date) (*store.Habit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidHabit)
	}
	if err := weekDays.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHabit, err)
	}
	if createdAt.IsZero() {
		return nil, fmt.Errorf("%w: creation date is required", ErrInvalidHabit)
	}

	habit := &store.Habit{
		ID:        s.newID(),
		Title:     title,
		CreatedAt: createdAt,
		WeekDays:  weekDays.Normalize(),
	}
	if err := s.store.CreateHabit(ctx, habit); err != nil {
		return nil, fmt.Errorf("creating habit: %w", err)
	}

	s.metrics.RecordHabitCreated()
	s.logger.Info("habit created",
		"habit_id", habit.ID,
		"title", habit.Title,
		"week_days", habit.WeekDays.Ints(),
		"created_at", habit.CreatedAt,
	)
	return habit, nil
}

// GetHabit returns the habit with id, or ErrHabitNotFound.
func (s *Service) GetHabit(ctx context.Context, id string) (*store.Habit, error) {
	habit, err := s.store.GetHabit(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting habit: %w", err)
	}
	return habit, nil
}

// ListHabits returns every habit, oldest first.
func (s *Service) ListHabits(ctx context.Context) ([]*store.Habit, error) {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	return nonNil(habits), nil
}

// FilterHabits returns habits whose title starts with prefix. The match is
// literal and case-sensitive; an empty prefix matches every habit.
func (s *Service) FilterHabits(ctx context.Context, prefix string) ([]*store.Habit, error) {
	habits, err := s.store.ListHabitsByTitlePrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("filtering habits: %w", err)
	}
	return nonNil(habits), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
