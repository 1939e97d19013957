// Package store provides persistent storage for habitd.
//
// # Architecture
//
// Two interfaces split the persistence surface:
//
//   - HabitCatalog: habit definitions and their weekly schedules
//   - DayLedger: lazily created days and the completions recorded on them
//
// Store combines both and adds WithTx, which binds a DayLedger to a single
// transaction. Three implementations exist:
//
//   - SQLiteStore: modernc.org/sqlite, the default
//   - PostgresStore: jackc/pgx/v5 connection pool
//   - MockStore: in-memory maps for unit tests
//
// # Schema
//
//	habits(id, title, created_at)
//	habit_week_days(habit_id, week_day)   -- PRIMARY KEY(habit_id, week_day)
//	days(id, date)                        -- date UNIQUE
//	day_habits(id, day_id, habit_id)      -- UNIQUE(day_id, habit_id)
//
// Dates are YYYY-MM-DD text in SQLite and DATE in PostgreSQL. Week days use
// Sunday = 0.
//
// # SQLite Configuration
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// The pool is limited to one connection, matching SQLite's single writer.
//
// # Error Handling
//
//   - ErrNotFound: the row does not exist, or a completion references an
//     unknown day or habit
//   - ErrConflict: a uniqueness constraint was violated, usually by a
//     concurrent writer
//
// # Testing
//
// Use NewMockStore() for unit tests. Its BeforeCreateDay and
// BeforeCreateCompletion hooks simulate a competing writer.
//
// PostgreSQL tests run only when HABITD_TEST_POSTGRES_DSN is set.
package store
