// ABOUTME: Tests for habit creation and lookup
// ABOUTME: Uses MockStore with a deterministic id generator

package habits

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/habitd/internal/calendar"
	"github.com/2389/habitd/internal/metrics"
	"github.com/2389/habitd/internal/store"
)

// sequentialIDs returns an id generator producing id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestService(t *testing.T, opts ...Option) (*Service, *store.MockStore) {
	t.Helper()
	st := store.NewMockStore()
	opts = append([]Option{WithIDGenerator(sequentialIDs())}, opts...)
	return New(st, nil, opts...), st
}

func TestCreateHabit(t *testing.T) {
	m := metrics.New()
	svc, st := newTestService(t, WithMetrics(m))
	ctx := context.Background()
	created := calendar.MustParse("2024-01-01")

	h, err := svc.CreateHabit(ctx, "  Exercise \n", calendar.WeekdaySet{time.Friday, time.Monday, time.Friday}, created)
	require.NoError(t, err)
	assert.Equal(t, "id-1", h.ID)
	assert.Equal(t, "Exercise", h.Title)
	assert.Equal(t, created, h.CreatedAt)
	assert.Equal(t, calendar.WeekdaySet{time.Monday, time.Friday}, h.WeekDays)

	stored, err := st.GetHabit(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, h, stored)
}

func TestCreateHabit_EmptySchedule(t *testing.T) {
	svc, _ := newTestService(t)

	h, err := svc.CreateHabit(context.Background(), "Someday", nil, calendar.MustParse("2024-01-01"))
	require.NoError(t, err)
	assert.NotNil(t, h.WeekDays)
	assert.Empty(t, h.WeekDays)
}

func TestCreateHabit_Invalid(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	created := calendar.MustParse("2024-01-01")

	tests := []struct {
		name     string
		title    string
		weekDays calendar.WeekdaySet
		created  calendar.Date
	}{
		{"empty title", "", calendar.WeekdaySet{time.Monday}, created},
		{"blank title", "   ", calendar.WeekdaySet{time.Monday}, created},
		{"weekday too large", "Run", calendar.WeekdaySet{time.Weekday(7)}, created},
		{"negative weekday", "Run", calendar.WeekdaySet{time.Weekday(-1)}, created},
		{"zero date", "Run", calendar.WeekdaySet{time.Monday}, calendar.Date{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateHabit(ctx, tt.title, tt.weekDays, tt.created)
			assert.ErrorIs(t, err, ErrInvalidHabit)
		})
	}

	habits, err := st.ListHabits(ctx)
	require.NoError(t, err)
	assert.Empty(t, habits)
}

func TestCreateHabit_InvalidWeekdayKeepsCause(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateHabit(context.Background(), "Run", calendar.WeekdaySet{8}, calendar.MustParse("2024-01-01"))
	assert.ErrorIs(t, err, ErrInvalidHabit)
	assert.ErrorIs(t, err, calendar.ErrInvalidWeekday)
}

func TestGetHabit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	h, err := svc.CreateHabit(ctx, "Read", calendar.WeekdaySet{time.Sunday}, calendar.MustParse("2024-01-01"))
	require.NoError(t, err)

	got, err := svc.GetHabit(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, h, got)

	_, err = svc.GetHabit(ctx, "missing")
	assert.ErrorIs(t, err, ErrHabitNotFound)
}

func TestListAndFilterHabits(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	all, err := svc.ListHabits(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	for i, title := range []string{"Read a book", "Run", "read news", "Meditate"} {
		_, err := svc.CreateHabit(ctx, title, calendar.WeekdaySet{time.Monday}, calendar.New(2024, time.January, 1+i))
		require.NoError(t, err)
	}

	all, err = svc.ListHabits(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1", "id-2", "id-3", "id-4"}, ids(all))

	filtered, err := svc.FilterHabits(ctx, "R")
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1", "id-2"}, ids(filtered))

	filtered, err = svc.FilterHabits(ctx, "")
	require.NoError(t, err)
	assert.Len(t, filtered, 4)

	filtered, err = svc.FilterHabits(ctx, "Swim")
	require.NoError(t, err)
	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)
}

func TestWithMaxToggleAttempts_IgnoresNonPositive(t *testing.T) {
	svc, _ := newTestService(t, WithMaxToggleAttempts(0))
	assert.Equal(t, DefaultMaxToggleAttempts, svc.maxToggleAttempts)

	svc, _ = newTestService(t, WithMaxToggleAttempts(5))
	assert.Equal(t, 5, svc.maxToggleAttempts)
}
