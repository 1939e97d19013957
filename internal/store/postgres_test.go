// ABOUTME: Tests for PostgreSQL store implementation
// ABOUTME: Skipped unless HABITD_TEST_POSTGRES_DSN points at a disposable database

package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("HABITD_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("HABITD_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, PostgresConfig{DSN: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.pool.Exec(ctx, `TRUNCATE day_habits, days, habit_week_days, habits`)
	require.NoError(t, err)
	return s
}

func TestPostgresStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store { return setupPostgresStore(t) })
}

func TestNewPostgresStore_BadDSN(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), PostgresConfig{DSN: "://not a dsn"})
	require.Error(t, err)
}
