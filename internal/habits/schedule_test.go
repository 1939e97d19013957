// ABOUTME: Tests for the scheduling rules and the day view
// ABOUTME: Covers weekday inclusion, creation-date cutoff and completed ids

package habits

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/habitd/internal/calendar"
	"github.com/2389/habitd/internal/store"
)

func habit(id, created string, days ...time.Weekday) *store.Habit {
	return &store.Habit{
		ID:        id,
		Title:     id,
		CreatedAt: calendar.MustParse(created),
		WeekDays:  calendar.WeekdaySet(days).Normalize(),
	}
}

func ids(habits []*store.Habit) []string {
	out := make([]string, len(habits))
	for i, h := range habits {
		out[i] = h.ID
	}
	return out
}

func TestIsPossible(t *testing.T) {
	// 2024-01-01 is a Monday.
	exercise := habit("exercise", "2024-01-01", time.Monday, time.Wednesday, time.Friday)

	tests := []struct {
		date string
		want bool
	}{
		{"2023-12-29", false}, // Friday before creation
		{"2024-01-01", true},  // creation day itself
		{"2024-01-02", false}, // Tuesday
		{"2024-01-03", true},  // Wednesday
		{"2024-01-05", true},  // Friday
		{"2024-01-06", false}, // Saturday
		{"2024-01-08", true},  // next Monday
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPossible(exercise, calendar.MustParse(tt.date)))
		})
	}
}

func TestIsPossible_EmptySchedule(t *testing.T) {
	never := habit("never", "2024-01-01")
	start := calendar.MustParse("2024-01-01")
	for i := range 14 {
		assert.False(t, IsPossible(never, start.AddDays(i)))
	}
}

func TestIsPossible_RecurrenceInclusion(t *testing.T) {
	created := calendar.MustParse("2024-03-10")

	// Every weekday mask against four weeks either side of creation.
	for mask := range 1 << 7 {
		var days calendar.WeekdaySet
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if mask&(1<<wd) != 0 {
				days = append(days, wd)
			}
		}
		h := &store.Habit{ID: "h", CreatedAt: created, WeekDays: days}

		for offset := -28; offset <= 28; offset++ {
			d := created.AddDays(offset)
			want := offset >= 0 && mask&(1<<d.Weekday()) != 0
			if got := IsPossible(h, d); got != want {
				t.Fatalf("mask %07b, date %s (%s): got %v, want %v", mask, d, d.Weekday(), got, want)
			}
		}
	}
}

func TestPossible_PreservesOrder(t *testing.T) {
	habits := []*store.Habit{
		habit("a", "2024-01-01", time.Wednesday),
		habit("b", "2024-01-01", time.Tuesday),
		habit("c", "2024-01-10", time.Wednesday),
		habit("d", "2024-01-02", time.Wednesday, time.Sunday),
	}

	assert.Equal(t, []string{"a", "d"}, ids(Possible(habits, calendar.MustParse("2024-01-03"))))
	assert.Equal(t, []string{"a", "c", "d"}, ids(Possible(habits, calendar.MustParse("2024-01-10"))))

	none := Possible(habits, calendar.MustParse("2024-01-06"))
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestService_PossibleHabits_ExerciseScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	monday := calendar.MustParse("2024-01-01")
	_, err := svc.CreateHabit(ctx, "Exercise", calendar.WeekdaySet{time.Monday, time.Wednesday, time.Friday}, monday)
	require.NoError(t, err)

	tuesday, err := svc.PossibleHabits(ctx, monday.AddDays(1))
	require.NoError(t, err)
	assert.Empty(t, tuesday)

	wednesday, err := svc.PossibleHabits(ctx, monday.AddDays(2))
	require.NoError(t, err)
	require.Len(t, wednesday, 1)
	assert.Equal(t, "Exercise", wednesday[0].Title)
}

func TestService_Day(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	date := calendar.MustParse("2024-01-03") // Wednesday

	run, err := svc.CreateHabit(ctx, "Run", calendar.WeekdaySet{time.Wednesday}, date.AddDays(-7))
	require.NoError(t, err)
	read, err := svc.CreateHabit(ctx, "Read", calendar.WeekdaySet{time.Wednesday, time.Thursday}, date.AddDays(-7))
	require.NoError(t, err)
	_, err = svc.CreateHabit(ctx, "Swim", calendar.WeekdaySet{time.Saturday}, date.AddDays(-7))
	require.NoError(t, err)

	view, err := svc.Day(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, date, view.Date)
	assert.Equal(t, []string{run.ID, read.ID}, ids(view.PossibleHabits))
	assert.NotNil(t, view.CompletedHabitIDs)
	assert.Empty(t, view.CompletedHabitIDs)

	_, err = svc.Toggle(ctx, read.ID, date)
	require.NoError(t, err)

	view, err = svc.Day(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, []string{read.ID}, view.CompletedHabitIDs)

	// Other dates are unaffected.
	view, err = svc.Day(ctx, date.AddDays(1))
	require.NoError(t, err)
	assert.Equal(t, []string{read.ID}, ids(view.PossibleHabits))
	assert.Empty(t, view.CompletedHabitIDs)
}
