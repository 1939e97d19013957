// ABOUTME: JSON request and response bodies for the habit HTTP API
// ABOUTME: Converts core habit values into their wire form

package api

import (
	"github.com/2389/habitd/internal/calendar"
	"github.com/2389/habitd/internal/habits"
	"github.com/2389/habitd/internal/store"
)

// CreateHabitRequest is the JSON request body for POST /habits.
type CreateHabitRequest struct {
	Title    string `json:"title"`
	WeekDays []int  `json:"weekDays"`
}

// HabitResponse is the JSON form of a habit.
type HabitResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CreatedAt calendar.Date `json:"created_at"`
	WeekDays  []int         `json:"week_days"`
}

// DayResponse is the JSON response for GET /day.
type DayResponse struct {
	PossibleHabits  []HabitResponse `json:"possibleHabits"`
	CompletedHabits []string        `json:"completedHabits"`
}

// ToggleResponse is the JSON response for PATCH /habits/{id}/toggle.
type ToggleResponse struct {
	HabitID   string        `json:"habit_id"`
	Date      calendar.Date `json:"date"`
	Completed bool          `json:"completed"`
}

// SummaryEntryResponse is one element of the GET /summary array.
type SummaryEntryResponse struct {
	ID        string        `json:"id"`
	Date      calendar.Date `json:"date"`
	Completed float64       `json:"completed"`
	Possible  float64       `json:"possible"`
}

func toHabitResponse(h *store.Habit) HabitResponse {
	return HabitResponse{
		ID:        h.ID,
		Title:     h.Title,
		CreatedAt: h.CreatedAt,
		WeekDays:  h.WeekDays.Ints(),
	}
}

func toHabitResponses(list []*store.Habit) []HabitResponse {
	out := make([]HabitResponse, len(list))
	for i, h := range list {
		out[i] = toHabitResponse(h)
	}
	return out
}

func toSummaryResponses(entries []habits.SummaryEntry) []SummaryEntryResponse {
	out := make([]SummaryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = SummaryEntryResponse{
			ID:        e.DayID,
			Date:      e.Date,
			Completed: e.Completed,
			Possible:  e.Possible,
		}
	}
	return out
}
