// ABOUTME: HTTP handlers for habits, days, toggles and the summary
// ABOUTME: Validates input at the boundary and maps core errors to status codes

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/2389/habitd/internal/calendar"
	"github.com/2389/habitd/internal/habits"
	"github.com/2389/habitd/internal/metrics"
	"github.com/2389/habitd/internal/store"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 20

// Handler serves the habit API.
type Handler struct {
	svc      *habits.Service
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	location *time.Location
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithLocation sets the timezone in which "today" is determined.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) {
		if loc != nil {
			h.location = loc
		}
	}
}

// WithMetrics records request durations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// New creates a Handler for svc.
func New(svc *habits.Service, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		svc:      svc,
		logger:   logger.With("component", "api"),
		now:      time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	h.handle(mux, "GET /{$}", h.handleListHabits)
	h.handle(mux, "GET /habits/{id}", h.handleGetHabit)
	h.handle(mux, "GET /day", h.handleDay)
	h.handle(mux, "GET /filter", h.handleFilter)
	h.handle(mux, "POST /habits", h.handleCreateHabit)
	h.handle(mux, "PATCH /habits/{id}/toggle", h.handleToggle)
	h.handle(mux, "GET /summary", h.handleSummary)
}

func (h *Handler) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.Handle(pattern, Instrument(h.metrics, pattern, fn))
}

func (h *Handler) today() calendar.Date {
	return calendar.Today(h.now, h.location)
}

// handleListHabits handles GET /.
func (h *Handler) handleListHabits(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListHabits(r.Context())
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, toHabitResponses(list))
}

// handleGetHabit handles GET /habits/{id}.
func (h *Handler) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.habitID(w, r)
	if !ok {
		return
	}

	habit, err := h.svc.GetHabit(r.Context(), id)
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, toHabitResponse(habit))
}

// handleDay handles GET /day?date=YYYY-MM-DD.
func (h *Handler) handleDay(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		sendJSONError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}

	date, err := calendar.Parse(raw, h.location)
	if err != nil {
		sendJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q", raw))
		return
	}

	view, err := h.svc.Day(r.Context(), date)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, DayResponse{
		PossibleHabits:  toHabitResponses(view.PossibleHabits),
		CompletedHabits: view.CompletedHabitIDs,
	})
}

// handleFilter handles GET /filter?filter=prefix.
func (h *Handler) handleFilter(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.FilterHabits(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, toHabitResponses(list))
}

// handleCreateHabit handles POST /habits.
func (h *Handler) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	req, err := parseCreateHabitRequest(w, r)
	if err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	weekDays, err := calendar.ParseWeekdays(req.WeekDays)
	if err != nil {
		sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	habit, err := h.svc.CreateHabit(r.Context(), req.Title, weekDays, h.today())
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, toHabitResponse(habit))
}

// handleToggle handles PATCH /habits/{id}/toggle.
func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.habitID(w, r)
	if !ok {
		return
	}

	today := h.today()
	state, err := h.svc.Toggle(r.Context(), id, today)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, ToggleResponse{
		HabitID:   id,
		Date:      today,
		Completed: state == habits.Completed,
	})
}

// handleSummary handles GET /summary.
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Summary(r.Context())
	if err != nil {
		h.sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, toSummaryResponses(entries))
}

// habitID validates the {id} path value, writing a 400 if it is not a UUID.
func (h *Handler) habitID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		sendJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid habit id %q", raw))
		return "", false
	}
	return id.String(), true
}

// parseCreateHabitRequest decodes a CreateHabitRequest, rejecting unknown
// fields, trailing data and bodies over maxBodyBytes.
func parseCreateHabitRequest(w http.ResponseWriter, r *http.Request) (*CreateHabitRequest, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	var req CreateHabitRequest
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errors.New("request body too large")
		}
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON body: unexpected data after object")
	}

	if req.WeekDays == nil {
		return nil, errors.New("weekDays is required")
	}
	return &req, nil
}

// sendError maps a service error onto a status code.
func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, habits.ErrHabitNotFound):
		sendJSONError(w, http.StatusNotFound, "habit not found")
	case errors.Is(err, habits.ErrInvalidHabit),
		errors.Is(err, calendar.ErrInvalidWeekday),
		errors.Is(err, calendar.ErrInvalidDate):
		sendJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrConflict):
		h.logger.Warn("request gave up after conflicts", "route", r.Pattern, "error", err)
		sendJSONError(w, http.StatusConflict, "concurrent update, please retry")
	default:
		h.logger.Error("request failed", "route", r.Pattern, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendJSONError writes a JSON error response.
func sendJSONError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, map[string]string{"error": message})
}
