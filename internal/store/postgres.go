// ABOUTME: PostgreSQL implementation of the Store interface using pgx/v5 pgxpool
// ABOUTME: Shares the SQLite logical schema; maps SQLSTATE codes onto store errors

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2389/habitd/internal/calendar"
)

// PostgreSQL error codes we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresConfig configures the connection pool.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

// PostgresStore implements the Store interface using PostgreSQL
type PostgresStore struct {
	*postgresLedger
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// postgresLedger implements DayLedger on top of a pool or a transaction.
type postgresLedger struct {
	q      pgQuerier
	logger *slog.Logger
}

// NewPostgresStore connects to PostgreSQL, verifies the connection and
// creates the schema if needed.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	logger := slog.Default().With("component", "store")

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &PostgresStore{
		postgresLedger: &postgresLedger{q: pool, logger: logger},
		pool:           pool,
		logger:         logger,
	}

	if err := s.createSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("PostgreSQL store initialized",
		"host", poolCfg.ConnConfig.Host,
		"database", poolCfg.ConnConfig.Database,
		"max_conns", poolCfg.MaxConns,
	)
	return s, nil
}

func (s *PostgresStore) createSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS habits (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			created_at DATE NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_habits_created ON habits(created_at, id);

		CREATE TABLE IF NOT EXISTS habit_week_days (
			habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			week_day SMALLINT NOT NULL CHECK (week_day BETWEEN 0 AND 6),
			PRIMARY KEY (habit_id, week_day)
		);

		CREATE INDEX IF NOT EXISTS idx_habit_week_days_week_day ON habit_week_days(week_day);

		CREATE TABLE IF NOT EXISTS days (
			id   TEXT PRIMARY KEY,
			date DATE NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS day_habits (
			id       TEXT PRIMARY KEY,
			day_id   TEXT NOT NULL REFERENCES days(id) ON DELETE CASCADE,
			habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			UNIQUE (day_id, habit_id)
		);

		CREATE INDEX IF NOT EXISTS idx_day_habits_habit ON day_habits(habit_id);
	`)
	return err
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.logger.Info("closing PostgreSQL store")
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// WithTx runs fn inside a single PostgreSQL transaction.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx DayLedger) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(&postgresLedger{q: tx, logger: s.logger}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// pgErrorCode returns the SQLSTATE of err, or "" if it is not a server error.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// pgDate converts a DATE column value (midnight UTC) to a calendar date.
func pgDate(t time.Time) calendar.Date {
	return calendar.FromTime(t, time.UTC)
}

// CreateHabit inserts a habit and its weekdays in one transaction.
func (s *PostgresStore) CreateHabit(ctx context.Context, habit *Habit) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO habits (id, title, created_at) VALUES ($1, $2, $3)
		`, habit.ID, habit.Title, habit.CreatedAt.Time()); err != nil {
			return err
		}

		for _, wd := range habit.WeekDays.Normalize() {
			if _, err := tx.Exec(ctx, `
				INSERT INTO habit_week_days (habit_id, week_day) VALUES ($1, $2)
			`, habit.ID, int16(wd)); err != nil {
				return fmt.Errorf("week day %d: %w", wd, err)
			}
		}
		return nil
	})
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("inserting habit: %w", err)
	}

	s.logger.Debug("created habit", "id", habit.ID, "title", habit.Title, "week_days", habit.WeekDays.Ints())
	return nil
}

// array_agg keeps one row per habit; the FILTER drops the NULL produced by
// habits without weekdays.
const pgSelectHabits = `
	SELECT h.id, h.title, h.created_at,
	       COALESCE(array_agg(w.week_day ORDER BY w.week_day) FILTER (WHERE w.week_day IS NOT NULL), '{}')
	FROM habits h
	LEFT JOIN habit_week_days w ON w.habit_id = h.id
`

// GetHabit retrieves a habit by ID.
// Returns ErrNotFound if the habit doesn't exist.
func (s *PostgresStore) GetHabit(ctx context.Context, id string) (*Habit, error) {
	habits, err := s.queryHabits(ctx, pgSelectHabits+`
		WHERE h.id = $1
		GROUP BY h.id, h.title, h.created_at
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
func (s *PostgresStore) ListHabits(ctx context.Context) ([]*Habit, error) {
	return s.queryHabits(ctx, pgSelectHabits+`
		GROUP BY h.id, h.title, h.created_at
		ORDER BY h.created_at, h.id
	`)
}

// ListHabitsByTitlePrefix returns habits whose title starts with prefix.
func (s *PostgresStore) ListHabitsByTitlePrefix(ctx context.Context, prefix string) ([]*Habit, error) {
	return s.queryHabits(ctx, pgSelectHabits+`
		WHERE left(h.title, char_length($1)) = $1
		GROUP BY h.id, h.title, h.created_at
		ORDER BY h.created_at, h.id
	`, prefix)
}

func (s *PostgresStore) queryHabits(ctx context.Context, query string, args ...any) ([]*Habit, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying habits: %w", err)
	}
	defer rows.Close()

	var habits []*Habit
	for rows.Next() {
		var h Habit
		var createdAt time.Time
		var weekDays []int16

		if err := rows.Scan(&h.ID, &h.Title, &createdAt, &weekDays); err != nil {
			return nil, fmt.Errorf("scanning habit row: %w", err)
		}

		h.CreatedAt = pgDate(createdAt)
		h.WeekDays = make(calendar.WeekdaySet, 0, len(weekDays))
		for _, wd := range weekDays {
			h.WeekDays = append(h.WeekDays, time.Weekday(wd))
		}
		habits = append(habits, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating habit rows: %w", err)
	}
	return habits, nil
}

// GetDayByDate retrieves the day for date.
func (l *postgresLedger) GetDayByDate(ctx context.Context, date calendar.Date) (*Day, error) {
	var day Day
	var d time.Time

	err := l.q.QueryRow(ctx, `SELECT id, date FROM days WHERE date = $1`, date.Time()).Scan(&day.ID, &d)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying day: %w", err)
	}

	day.Date = pgDate(d)
	return &day, nil
}

// CreateDay inserts a new day.
func (l *postgresLedger) CreateDay(ctx context.Context, day *Day) error {
	_, err := l.q.Exec(ctx, `INSERT INTO days (id, date) VALUES ($1, $2)`, day.ID, day.Date.Time())
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("inserting day: %w", err)
	}

	l.logger.Debug("created day", "id", day.ID, "date", day.Date)
	return nil
}

// GetCompletion retrieves the completion of habitID on dayID.
func (l *postgresLedger) GetCompletion(ctx context.Context, dayID, habitID string) (*Completion, error) {
	var c Completion
	err := l.q.QueryRow(ctx, `
		SELECT id, day_id, habit_id FROM day_habits WHERE day_id = $1 AND habit_id = $2
	`, dayID, habitID).Scan(&c.ID, &c.DayID, &c.HabitID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying completion: %w", err)
	}
	return &c, nil
}

// CreateCompletion marks a habit completed on a day.
func (l *postgresLedger) CreateCompletion(ctx context.Context, c *Completion) error {
	_, err := l.q.Exec(ctx, `
		INSERT INTO day_habits (id, day_id, habit_id) VALUES ($1, $2, $3)
	`, c.ID, c.DayID, c.HabitID)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return ErrConflict
		case pgForeignKeyViolation:
			return ErrNotFound
		}
		return fmt.Errorf("inserting completion: %w", err)
	}

	l.logger.Debug("created completion", "id", c.ID, "day_id", c.DayID, "habit_id", c.HabitID)
	return nil
}

// DeleteCompletion removes a completion by id.
func (l *postgresLedger) DeleteCompletion(ctx context.Context, id string) error {
	tag, err := l.q.Exec(ctx, `DELETE FROM day_habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	l.logger.Debug("deleted completion", "id", id)
	return nil
}

// ListCompletedHabitIDs returns the habits completed on a day.
func (l *postgresLedger) ListCompletedHabitIDs(ctx context.Context, dayID string) ([]string, error) {
	rows, err := l.q.Query(ctx, `SELECT habit_id FROM day_habits WHERE day_id = $1 ORDER BY habit_id`, dayID)
	if err != nil {
		return nil, fmt.Errorf("querying completed habits: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collecting completed habits: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// ListDayCompletionCounts returns every day with its completion count.
func (l *postgresLedger) ListDayCompletionCounts(ctx context.Context) ([]DayCompletionCount, error) {
	rows, err := l.q.Query(ctx, `
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
		var d time.Time
		var completed int64
		if err := rows.Scan(&c.DayID, &d, &completed); err != nil {
			return nil, fmt.Errorf("scanning day completion count: %w", err)
		}
		c.Date = pgDate(d)
		c.Completed = int(completed)
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating day completion counts: %w", err)
	}
	return counts, nil
}

// Ensure PostgresStore implements Store interface
var _ Store = (*PostgresStore)(nil)
