// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides habit catalog and day ledger persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/2389/habitd/internal/calendar"
)

// sqlQuerier is satisfied by both *sql.DB and *sql.Tx.
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	*sqliteLedger
	db     *sql.DB
	logger *slog.Logger
}

// sqliteLedger implements DayLedger on top of a database or a transaction.
type sqliteLedger struct {
	q      sqlQuerier
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite has a single writer. One connection also keeps per-connection
	// pragmas (and :memory: databases) consistent across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		sqliteLedger: &sqliteLedger{q: db, logger: logger},
		db:           db,
		logger:       logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS habits (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_habits_created ON habits(created_at, id);

		CREATE TABLE IF NOT EXISTS habit_week_days (
			habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			week_day INTEGER NOT NULL,

			PRIMARY KEY (habit_id, week_day),
			CHECK (week_day BETWEEN 0 AND 6)
		);

		CREATE INDEX IF NOT EXISTS idx_habit_week_days_week_day ON habit_week_days(week_day);

		-- A day row is created on the first completion for its date.
		CREATE TABLE IF NOT EXISTS days (
			id   TEXT PRIMARY KEY,
			date TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS day_habits (
			id       TEXT PRIMARY KEY,
			day_id   TEXT NOT NULL REFERENCES days(id) ON DELETE CASCADE,
			habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,

			UNIQUE (day_id, habit_id)
		);

		CREATE INDEX IF NOT EXISTS idx_day_habits_habit ON day_habits(habit_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn inside a single SQLite transaction.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(tx DayLedger) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(&sqliteLedger{q: tx, logger: s.logger}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// isConstraintViolation checks if the error is a SQLite UNIQUE or PRIMARY KEY constraint violation
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed")
}

// isForeignKeyViolation checks if the error is a SQLite FOREIGN KEY constraint violation
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// parseDate decodes a YYYY-MM-DD column value.
func parseDate(column, value string) (calendar.Date, error) {
	var d calendar.Date
	if err := d.UnmarshalText([]byte(value)); err != nil {
		return calendar.Date{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return d, nil
}

// CreateHabit inserts a habit and its weekdays in one transaction.
func (s *SQLiteStore) CreateHabit(ctx context.Context, habit *Habit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO habits (id, title, created_at)
		VALUES (?, ?, ?)
	`, habit.ID, habit.Title, habit.CreatedAt.String())
	if err != nil {
		if isConstraintViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("inserting habit: %w", err)
	}

	for _, wd := range habit.WeekDays.Normalize() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO habit_week_days (habit_id, week_day) VALUES (?, ?)
		`, habit.ID, int(wd)); err != nil {
			return fmt.Errorf("inserting habit week day %d: %w", wd, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing habit: %w", err)
	}

	s.logger.Debug("created habit", "id", habit.ID, "title", habit.Title, "week_days", habit.WeekDays.Ints())
	return nil
}

const selectHabitsWithWeekDays = `
	SELECT h.id, h.title, h.created_at, w.week_day
	FROM habits h
	LEFT JOIN habit_week_days w ON w.habit_id = h.id
`

// GetHabit retrieves a habit by ID.
// Returns ErrNotFound if the habit doesn't exist.
func (s *SQLiteStore) GetHabit(ctx context.Context, id string) (*Habit, error) {
	habits, err := s.queryHabits(ctx, selectHabitsWithWeekDays+`
		WHERE h.id = ?
		ORDER BY w.week_day
	`, id)
	if err != nil {
		return nil, err
	}
	if len(habits) == 0 {
		return nil, ErrNotFound
	}
	return habits[0], nil
}

// ListHabits returns all habits ordered by creation date.
func (s *SQLiteStore) ListHabits(ctx context.Context) ([]*Habit, error) {
	return s.queryHabits(ctx, selectHabitsWithWeekDays+`
		ORDER BY h.created_at, h.id, w.week_day
	`)
}

// ListHabitsByTitlePrefix returns habits whose title starts with prefix.
// substr is used instead of LIKE so that % and _ in the prefix are literal.
func (s *SQLiteStore) ListHabitsByTitlePrefix(ctx context.Context, prefix string) ([]*Habit, error) {
	return s.queryHabits(ctx, selectHabitsWithWeekDays+`
		WHERE substr(h.title, 1, length(?)) = ?
		ORDER BY h.created_at, h.id, w.week_day
	`, prefix, prefix)
}

// queryHabits folds habit/week_day join rows into habits. Rows for the same
// habit must be adjacent.
func (s *SQLiteStore) queryHabits(ctx context.Context, query string, args ...any) ([]*Habit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying habits: %w", err)
	}
	defer rows.Close()

	var habits []*Habit
	var current *Habit
	for rows.Next() {
		var id, title, createdAtStr string
		var weekDay sql.NullInt64

		if err := rows.Scan(&id, &title, &createdAtStr, &weekDay); err != nil {
			return nil, fmt.Errorf("scanning habit row: %w", err)
		}

		if current == nil || current.ID != id {
			createdAt, err := parseDate("created_at", createdAtStr)
			if err != nil {
				return nil, err
			}
			current = &Habit{
				ID:        id,
				Title:     title,
				CreatedAt: createdAt,
				WeekDays:  calendar.WeekdaySet{},
			}
			habits = append(habits, current)
		}

		if weekDay.Valid {
			current.WeekDays = append(current.WeekDays, time.Weekday(weekDay.Int64))
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating habit rows: %w", err)
	}

	return habits, nil
}

// GetDayByDate retrieves the day for date.
// Returns ErrNotFound if no completion was ever recorded on it.
func (l *sqliteLedger) GetDayByDate(ctx context.Context, date calendar.Date) (*Day, error) {
	var day Day
	var dateStr string

	err := l.q.QueryRowContext(ctx, `SELECT id, date FROM days WHERE date = ?`, date.String()).
		Scan(&day.ID, &dateStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying day: %w", err)
	}

	day.Date, err = parseDate("date", dateStr)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// CreateDay inserts a new day.
// Returns ErrConflict if a day already exists for the date.
func (l *sqliteLedger) CreateDay(ctx context.Context, day *Day) error {
	_, err := l.q.ExecContext(ctx, `INSERT INTO days (id, date) VALUES (?, ?)`, day.ID, day.Date.String())
	if err != nil {
		if isConstraintViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("inserting day: %w", err)
	}

	l.logger.Debug("created day", "id", day.ID, "date", day.Date)
	return nil
}

// GetCompletion retrieves the completion of habitID on dayID.
// Returns ErrNotFound if the habit is not completed on that day.
func (l *sqliteLedger) GetCompletion(ctx context.Context, dayID, habitID string) (*Completion, error) {
	var c Completion
	err := l.q.QueryRowContext(ctx, `
		SELECT id, day_id, habit_id
		FROM day_habits
		WHERE day_id = ? AND habit_id = ?
	`, dayID, habitID).Scan(&c.ID, &c.DayID, &c.HabitID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying completion: %w", err)
	}
	return &c, nil
}

// CreateCompletion marks a habit completed on a day.
func (l *sqliteLedger) CreateCompletion(ctx context.Context, c *Completion) error {
	_, err := l.q.ExecContext(ctx, `
		INSERT INTO day_habits (id, day_id, habit_id) VALUES (?, ?, ?)
	`, c.ID, c.DayID, c.HabitID)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrConflict
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("inserting completion: %w", err)
	}

	l.logger.Debug("created completion", "id", c.ID, "day_id", c.DayID, "habit_id", c.HabitID)
	return nil
}

// DeleteCompletion removes a completion by id.
// Returns ErrNotFound if the completion doesn't exist.
func (l *sqliteLedger) DeleteCompletion(ctx context.Context, id string) error {
	result, err := l.q.ExecContext(ctx, `DELETE FROM day_habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting completion: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	l.logger.Debug("deleted completion", "id", id)
	return nil
}

// ListCompletedHabitIDs returns the habits completed on a day.
func (l *sqliteLedger) ListCompletedHabitIDs(ctx context.Context, dayID string) ([]string, error) {
	rows, err := l.q.QueryContext(ctx, `
		SELECT habit_id FROM day_habits WHERE day_id = ? ORDER BY habit_id
	`, dayID)
	if err != nil {
		return nil, fmt.Errorf("querying completed habits: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning completed habit: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completed habits: %w", err)
	}
	return ids, nil
}

// ListDayCompletionCounts returns every day with its completion count.
func (l *sqliteLedger) ListDayCompletionCounts(ctx context.Context) ([]DayCompletionCount, error) {
	rows, err := l.q.QueryContext(ctx, `
		SELECT d.id, d.date, COUNT(dh.id)
		FROM days d
		LEFT JOIN day_habits dh ON dh.day_id = d.id
		GROUP BY d.id, d.date
		ORDER BY d.date
	`)
	if err != nil {
		return nil, fmt.Errorf("querying day completion counts: %w", err)
	}
	defer rows.Close()

	var counts []DayCompletionCount
	for rows.Next() {
		var c DayCompletionCount
		var dateStr string
		if err := rows.Scan(&c.DayID, &dateStr, &c.Completed); err != nil {
			return nil, fmt.Errorf("scanning day completion count: %w", err)
		}
		c.Date, err = parseDate("date", dateStr)
		if err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating day completion counts: %w", err)
	}
	return counts, nil
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
