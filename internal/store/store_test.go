// ABOUTME: Behavioral tests shared by every Store implementation
// ABOUTME: Run against SQLite, PostgreSQL and MockStore so their semantics stay aligned

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/habitd/internal/calendar"
)

// runStoreTests exercises the Store contract against stores built by newStore.
// Each subtest gets a fresh, empty store.
func runStoreTests(t *testing.T, newStore func(t *testing.T) Store) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s Store)
	}{
		{"CreateAndGetHabit", testCreateAndGetHabit},
		{"CreateHabitDuplicateID", testCreateHabitDuplicateID},
		{"GetHabitNotFound", testGetHabitNotFound},
		{"CreateHabitNormalizesWeekDays", testCreateHabitNormalizesWeekDays},
		{"ListHabitsOrdering", testListHabitsOrdering},
		{"ListHabitsEmpty", testListHabitsEmpty},
		{"ListHabitsByTitlePrefix", testListHabitsByTitlePrefix},
		{"ListHabitsByTitlePrefixIsLiteral", testListHabitsByTitlePrefixIsLiteral},
		{"DayLifecycle", testDayLifecycle},
		{"CreateDayDuplicateDate", testCreateDayDuplicateDate},
		{"CompletionLifecycle", testCompletionLifecycle},
		{"CreateCompletionDuplicatePair", testCreateCompletionDuplicatePair},
		{"CreateCompletionUnknownHabit", testCreateCompletionUnknownHabit},
		{"DeleteCompletionNotFound", testDeleteCompletionNotFound},
		{"ListDayCompletionCounts", testListDayCompletionCounts},
		{"WithTxCommit", testWithTxCommit},
		{"WithTxRollback", testWithTxRollback},
		{"Ping", testPing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func mustCreateHabit(t *testing.T, s Store, id, title, created string, days ...time.Weekday) *Habit {
	t.Helper()
	h := &Habit{
		ID:        id,
		Title:     title,
		CreatedAt: calendar.MustParse(created),
		WeekDays:  calendar.WeekdaySet(days),
	}
	require.NoError(t, s.CreateHabit(context.Background(), h))
	return h
}

func mustCreateDay(t *testing.T, s DayLedger, id, date string) *Day {
	t.Helper()
	d := &Day{ID: id, Date: calendar.MustParse(date)}
	require.NoError(t, s.CreateDay(context.Background(), d))
	return d
}

func habitIDs(habits []*Habit) []string {
	ids := make([]string, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	return ids
}

func testCreateAndGetHabit(t *testing.T, s Store) {
	mustCreateHabit(t, s, "habit-1", "Exercise", "2024-01-01", time.Monday, time.Wednesday, time.Friday)

	got, err := s.GetHabit(context.Background(), "habit-1")
	require.NoError(t, err)
	assert.Equal(t, "habit-1", got.ID)
	assert.Equal(t, "Exercise", got.Title)
	assert.Equal(t, calendar.New(2024, time.January, 1), got.CreatedAt)
	assert.Equal(t, calendar.WeekdaySet{time.Monday, time.Wednesday, time.Friday}, got.WeekDays)
}

func testCreateHabitDuplicateID(t *testing.T, s Store) {
	mustCreateHabit(t, s, "habit-1", "Exercise", "2024-01-01")

	err := s.CreateHabit(context.Background(), &Habit{
		ID:        "habit-1",
		Title:     "Read",
		CreatedAt: calendar.MustParse("2024-01-02"),
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func testGetHabitNotFound(t *testing.T, s Store) {
	_, err := s.GetHabit(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testCreateHabitNormalizesWeekDays(t *testing.T, s Store) {
	mustCreateHabit(t, s, "habit-1", "Stretch", "2024-01-01", time.Friday, time.Monday, time.Friday)
	mustCreateHabit(t, s, "habit-2", "Never", "2024-01-01")

	got, err := s.GetHabit(context.Background(), "habit-1")
	require.NoError(t, err)
	assert.Equal(t, calendar.WeekdaySet{time.Monday, time.Friday}, got.WeekDays)

	empty, err := s.GetHabit(context.Background(), "habit-2")
	require.NoError(t, err)
	assert.NotNil(t, empty.WeekDays)
	assert.Empty(t, empty.WeekDays)
}

func testListHabitsOrdering(t *testing.T, s Store) {
	mustCreateHabit(t, s, "b", "Second", "2024-01-02", time.Tuesday)
	mustCreateHabit(t, s, "c", "Third", "2024-01-02", time.Sunday, time.Saturday)
	mustCreateHabit(t, s, "a", "First", "2024-01-01", time.Monday)

	habits, err := s.ListHabits(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, habitIDs(habits))
	assert.Equal(t, calendar.WeekdaySet{time.Sunday, time.Saturday}, habits[2].WeekDays)
}

func testListHabitsEmpty(t *testing.T, s Store) {
	habits, err := s.ListHabits(context.Background())
	require.NoError(t, err)
	assert.Empty(t, habits)
}

func testListHabitsByTitlePrefix(t *testing.T, s Store) {
	mustCreateHabit(t, s, "1", "Read a book", "2024-01-01")
	mustCreateHabit(t, s, "2", "Read news", "2024-01-02")
	mustCreateHabit(t, s, "3", "Run", "2024-01-03")
	mustCreateHabit(t, s, "4", "read lowercase", "2024-01-04")

	ctx := context.Background()

	habits, err := s.ListHabitsByTitlePrefix(ctx, "Read")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, habitIDs(habits))

	habits, err = s.ListHabitsByTitlePrefix(ctx, "R")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, habitIDs(habits))

	habits, err = s.ListHabitsByTitlePrefix(ctx, "")
	require.NoError(t, err)
	assert.Len(t, habits, 4)

	habits, err = s.ListHabitsByTitlePrefix(ctx, "Swim")
	require.NoError(t, err)
	assert.Empty(t, habits)
}

func testListHabitsByTitlePrefixIsLiteral(t *testing.T, s Store) {
	mustCreateHabit(t, s, "1", "100% effort", "2024-01-01")
	mustCreateHabit(t, s, "2", "1000 steps", "2024-01-02")
	mustCreateHabit(t, s, "3", "a_b", "2024-01-03")
	mustCreateHabit(t, s, "4", "axb", "2024-01-04")

	ctx := context.Background()

	habits, err := s.ListHabitsByTitlePrefix(ctx, "100%")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, habitIDs(habits))

	habits, err = s.ListHabitsByTitlePrefix(ctx, "a_")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, habitIDs(habits))
}

func testDayLifecycle(t *testing.T, s Store) {
	ctx := context.Background()
	date := calendar.MustParse("2024-03-15")

	_, err := s.GetDayByDate(ctx, date)
	assert.ErrorIs(t, err, ErrNotFound)

	mustCreateDay(t, s, "day-1", "2024-03-15")

	got, err := s.GetDayByDate(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, "day-1", got.ID)
	assert.Equal(t, date, got.Date)
}

func testCreateDayDuplicateDate(t *testing.T, s Store) {
	mustCreateDay(t, s, "day-1", "2024-03-15")

	err := s.CreateDay(context.Background(), &Day{ID: "day-2", Date: calendar.MustParse("2024-03-15")})
	assert.ErrorIs(t, err, ErrConflict)
}

func testCompletionLifecycle(t *testing.T, s Store) {
	ctx := context.Background()
	mustCreateHabit(t, s, "habit-1", "Exercise", "2024-01-01", time.Monday)
	mustCreateHabit(t, s, "habit-2", "Read", "2024-01-01", time.Monday)
	day := mustCreateDay(t, s, "day-1", "2024-01-01")

	_, err := s.GetCompletion(ctx, day.ID, "habit-1")
	assert.ErrorIs(t, err, ErrNotFound)

	ids, err := s.ListCompletedHabitIDs(ctx, day.ID)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	require.NoError(t, s.CreateCompletion(ctx, &Completion{ID: "c-2", DayID: day.ID, HabitID: "habit-2"}))
	require.NoError(t, s.CreateCompletion(ctx, &Completion{ID: "c-1", DayID: day.ID, HabitID: "habit-1"}))

	got, err := s.GetCompletion(ctx, day.ID, "habit-1")
	require.NoError(t, err)
	assert.Equal(t, &Completion{ID: "c-1", DayID: day.ID, HabitID: "habit-1"}, got)

	ids, err = s.ListCompletedHabitIDs(ctx, day.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"habit-1", "habit-2"}, ids)

	require.NoError(t, s.DeleteCompletion(ctx, "c-1"))

	_, err = s.GetCompletion(ctx, day.ID, "habit-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// The day outlives its completions.
	_, err = s.GetDayByDate(ctx, day.Date)
	assert.NoError(t, err)
}

func testCreateCompletionDuplicatePair(t *testing.T, s Store) {
	ctx := context.Background()
	mustCreateHabit(t, s, "habit-1", "Exercise", "2024-01-01")
	day := mustCreateDay(t, s, "day-1", "2024-01-01")

	require.NoError(t, s.CreateCompletion(ctx, &Completion{ID: "c-1", DayID: day.ID, HabitID: "habit-1"}))

	err := s.CreateCompletion(ctx, &Completion{ID: "c-2", DayID: day.ID, HabitID: "habit-1"})
	assert.ErrorIs(t, err, ErrConflict)
}

func testCreateCompletionUnknownHabit(t *testing.T, s Store) {
	ctx := context.Background()
	day := mustCreateDay(t, s, "day-1", "2024-01-01")

	err := s.CreateCompletion(ctx, &Completion{ID: "c-1", DayID: day.ID, HabitID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	mustCreateHabit(t, s, "habit-1", "Exercise", "2024-01-01")
	err = s.CreateCompletion(ctx, &Completion{ID: "c-2", DayID: "missing-day", HabitID: "habit-1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func testDeleteCompletionNotFound(t *testing.T, s Store) {
	err := s.DeleteCompletion(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testListDayCompletionCounts(t *testing.T, s Store) {
	ctx := context.Background()

	counts, err := s.ListDayCompletionCounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)

	mustCreateHabit(t, s, "h1", "One", "2024-01-01")
	mustCreateHabit(t, s, "h2", "Two", "2024-01-01")

	// Created out of date order on purpose.
	later := mustCreateDay(t, s, "day-b", "2024-01-03")
	earlier := mustCreateDay(t, s, "day-a", "2024-01-02")
	emptied := mustCreateDay(t, s, "day-c", "2024-01-04")

	require.NoError(t, s.CreateCompletion(ctx, &Completion{ID: "c1", DayID: later.ID, HabitID: "h1"}))
	require.NoError(t, s.CreateCompletion(ctx, &Completion{ID: "c2", DayID: later.ID, HabitID: "h2"}))
	require.NoError(t, s.CreateCompletion(ctx, &Completion{ID: "c3", DayID: earlier.ID, HabitID: "h1"}))
	require.NoError(t, s.CreateCompletion(ctx, &Completion{ID: "c4", DayID: emptied.ID, HabitID: "h2"}))
	require.NoError(t, s.DeleteCompletion(ctx, "c4"))

	counts, err = s.ListDayCompletionCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []DayCompletionCount{
		{DayID: "day-a", Date: calendar.MustParse("2024-01-02"), Completed: 1},
		{DayID: "day-b", Date: calendar.MustParse("2024-01-03"), Completed: 2},
		{DayID: "day-c", Date: calendar.MustParse("2024-01-04"), Completed: 0},
	}, counts)
}

func testWithTxCommit(t *testing.T, s Store) {
	ctx := context.Background()
	mustCreateHabit(t, s, "habit-1", "Exercise", "2024-01-01")

	err := s.WithTx(ctx, func(tx DayLedger) error {
		day := &Day{ID: "day-1", Date: calendar.MustParse("2024-01-01")}
		if err := tx.CreateDay(ctx, day); err != nil {
			return err
		}
		if _, err := tx.GetDayByDate(ctx, day.Date); err != nil {
			return err
		}
		return tx.CreateCompletion(ctx, &Completion{ID: "c-1", DayID: day.ID, HabitID: "habit-1"})
	})
	require.NoError(t, err)

	_, err = s.GetCompletion(ctx, "day-1", "habit-1")
	assert.NoError(t, err)
}

func testWithTxRollback(t *testing.T, s Store) {
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := s.WithTx(ctx, func(tx DayLedger) error {
		if err := tx.CreateDay(ctx, &Day{ID: "day-1", Date: calendar.MustParse("2024-01-01")}); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	_, err = s.GetDayByDate(ctx, calendar.MustParse("2024-01-01"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func testPing(t *testing.T, s Store) {
	assert.NoError(t, s.Ping(context.Background()))
}
