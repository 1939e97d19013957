// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite while keeping the same uniqueness rules

package store

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/2389/habitd/internal/calendar"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu          sync.RWMutex
	habits      map[string]*Habit        // keyed by habit ID
	days        map[string]*Day          // keyed by day ID
	daysByDate  map[calendar.Date]string // date -> day ID
	completions map[string]*Completion   // keyed by completion ID
	byPair      map[string]string        // "dayID:habitID" -> completion ID

	// Hooks let tests interleave a competing writer between the read and
	// write halves of an operation. Each fires once and is then cleared.
	// They run with the lock held and must write through tx. Inside WithTx,
	// hook writes count as committed by another transaction and survive a
	// rollback of the surrounding one.
	BeforeCreateDay        func(tx DayLedger, date calendar.Date)
	BeforeCreateCompletion func(tx DayLedger, dayID, habitID string)
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		habits:      make(map[string]*Habit),
		days:        make(map[string]*Day),
		daysByDate:  make(map[calendar.Date]string),
		completions: make(map[string]*Completion),
		byPair:      make(map[string]string),
	}
}

func pairKey(dayID, habitID string) string {
	return dayID + ":" + habitID
}

func copyHabit(h *Habit) *Habit {
	c := *h
	c.WeekDays = slices.Clone(h.WeekDays)
	return &c
}

// CreateHabit stores a new habit.
func (m *MockStore) CreateHabit(ctx context.Context, habit *Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.habits[habit.ID]; ok {
		return ErrConflict
	}

	h := copyHabit(habit)
	h.WeekDays = h.WeekDays.Normalize()
	m.habits[h.ID] = h
	return nil
}

// GetHabit retrieves a habit by ID.
func (m *MockStore) GetHabit(ctx context.Context, id string) (*Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.habits[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyHabit(h), nil
}

// ListHabits returns all habits ordered by creation date, then id.
func (m *MockStore) ListHabits(ctx context.Context) ([]*Habit, error) {
	return m.listHabits(func(*Habit) bool { return true }), nil
}

// ListHabitsByTitlePrefix returns habits whose title starts with prefix.
func (m *MockStore) ListHabitsByTitlePrefix(ctx context.Context, prefix string) ([]*Habit, error) {
	return m.listHabits(func(h *Habit) bool { return strings.HasPrefix(h.Title, prefix) }), nil
}

func (m *MockStore) listHabits(keep func(*Habit) bool) []*Habit {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*Habit
	for _, h := range m.habits {
		if keep(h) {
			result = append(result, copyHabit(h))
		}
	}

	slices.SortFunc(result, func(a, b *Habit) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// WithTx runs fn while holding the write lock, so the callback observes and
// mutates the store atomically. Ledger writes are undone if fn fails.
func (m *MockStore) WithTx(ctx context.Context, fn func(tx DayLedger) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := &mockLedger{m: m, inTx: true}
	l.snap = m.snapshot()
	if err := fn(l); err != nil {
		m.restore(l.snap)
		return err
	}
	return nil
}

// mockSnapshot is a copy of the ledger maps used to roll back WithTx.
// Stored values are never mutated in place, so shallow clones suffice.
type mockSnapshot struct {
	days        map[string]*Day
	daysByDate  map[calendar.Date]string
	completions map[string]*Completion
	byPair      map[string]string
}

func (m *MockStore) snapshot() mockSnapshot {
	return mockSnapshot{
		days:        maps.Clone(m.days),
		daysByDate:  maps.Clone(m.daysByDate),
		completions: maps.Clone(m.completions),
		byPair:      maps.Clone(m.byPair),
	}
}

func (m *MockStore) restore(s mockSnapshot) {
	m.days = s.days
	m.daysByDate = s.daysByDate
	m.completions = s.completions
	m.byPair = s.byPair
}

// Ping always succeeds.
func (m *MockStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}

// GetDayByDate retrieves the day for date.
func (m *MockStore) GetDayByDate(ctx context.Context, date calendar.Date) (*Day, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return (&mockLedger{m: m}).GetDayByDate(ctx, date)
}

// CreateDay stores a new day.
func (m *MockStore) CreateDay(ctx context.Context, day *Day) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&mockLedger{m: m}).CreateDay(ctx, day)
}

// GetCompletion retrieves the completion of habitID on dayID.
func (m *MockStore) GetCompletion(ctx context.Context, dayID, habitID string) (*Completion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return (&mockLedger{m: m}).GetCompletion(ctx, dayID, habitID)
}

// CreateCompletion stores a completion.
func (m *MockStore) CreateCompletion(ctx context.Context, c *Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&mockLedger{m: m}).CreateCompletion(ctx, c)
}

// DeleteCompletion removes a completion by id.
func (m *MockStore) DeleteCompletion(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&mockLedger{m: m}).DeleteCompletion(ctx, id)
}

// ListCompletedHabitIDs returns the habits completed on a day.
func (m *MockStore) ListCompletedHabitIDs(ctx context.Context, dayID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return (&mockLedger{m: m}).ListCompletedHabitIDs(ctx, dayID)
}

// ListDayCompletionCounts returns every day with its completion count.
func (m *MockStore) ListDayCompletionCounts(ctx context.Context) ([]DayCompletionCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return (&mockLedger{m: m}).ListDayCompletionCounts(ctx)
}

// DayCount returns the number of stored days. Test helper.
func (m *MockStore) DayCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.days)
}

// CompletionCount returns the number of stored completions. Test helper.
func (m *MockStore) CompletionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.completions)
}

// mockLedger operates on MockStore maps. Callers must hold m.mu.
type mockLedger struct {
	m    *MockStore
	inTx bool
	snap mockSnapshot
}

// runHook calls a one-shot test hook and treats its writes as committed.
func (l *mockLedger) runHook(hook func()) {
	hook()
	if l.inTx {
		l.snap = l.m.snapshot()
	}
}

func (l *mockLedger) GetDayByDate(ctx context.Context, date calendar.Date) (*Day, error) {
	id, ok := l.m.daysByDate[date]
	if !ok {
		return nil, ErrNotFound
	}
	d := *l.m.days[id]
	return &d, nil
}

func (l *mockLedger) CreateDay(ctx context.Context, day *Day) error {
	if hook := l.m.BeforeCreateDay; hook != nil {
		l.m.BeforeCreateDay = nil
		l.runHook(func() { hook(l, day.Date) })
	}
	if _, ok := l.m.daysByDate[day.Date]; ok {
		return ErrConflict
	}
	if _, ok := l.m.days[day.ID]; ok {
		return ErrConflict
	}

	d := *day
	l.m.days[d.ID] = &d
	l.m.daysByDate[d.Date] = d.ID
	return nil
}

func (l *mockLedger) GetCompletion(ctx context.Context, dayID, habitID string) (*Completion, error) {
	id, ok := l.m.byPair[pairKey(dayID, habitID)]
	if !ok {
		return nil, ErrNotFound
	}
	c := *l.m.completions[id]
	return &c, nil
}

func (l *mockLedger) CreateCompletion(ctx context.Context, c *Completion) error {
	if hook := l.m.BeforeCreateCompletion; hook != nil {
		l.m.BeforeCreateCompletion = nil
		l.runHook(func() { hook(l, c.DayID, c.HabitID) })
	}
	if _, ok := l.m.days[c.DayID]; !ok {
		return ErrNotFound
	}
	if _, ok := l.m.habits[c.HabitID]; !ok {
		return ErrNotFound
	}
	key := pairKey(c.DayID, c.HabitID)
	if _, ok := l.m.byPair[key]; ok {
		return ErrConflict
	}
	if _, ok := l.m.completions[c.ID]; ok {
		return ErrConflict
	}

	stored := *c
	l.m.completions[stored.ID] = &stored
	l.m.byPair[key] = stored.ID
	return nil
}

func (l *mockLedger) DeleteCompletion(ctx context.Context, id string) error {
	c, ok := l.m.completions[id]
	if !ok {
		return ErrNotFound
	}
	delete(l.m.byPair, pairKey(c.DayID, c.HabitID))
	delete(l.m.completions, id)
	return nil
}

func (l *mockLedger) ListCompletedHabitIDs(ctx context.Context, dayID string) ([]string, error) {
	ids := []string{}
	for _, c := range l.m.completions {
		if c.DayID == dayID {
			ids = append(ids, c.HabitID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (l *mockLedger) ListDayCompletionCounts(ctx context.Context) ([]DayCompletionCount, error) {
	perDay := make(map[string]int, len(l.m.days))
	for _, c := range l.m.completions {
		perDay[c.DayID]++
	}

	var counts []DayCompletionCount
	for id, d := range l.m.days {
		counts = append(counts, DayCompletionCount{DayID: id, Date: d.Date, Completed: perDay[id]})
	}
	slices.SortFunc(counts, func(a, b DayCompletionCount) int {
		return a.Date.Compare(b.Date)
	})
	return counts, nil
}

// Ensure MockStore implements Store interface
var _ Store = (*MockStore)(nil)
