package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/field-service-analytics/internal/config"
	"github.com/lorrc/field-service-analytics/internal/core/domain"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "facts.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	assert.Equal(t, config.DriverSQLite, store.Driver)
	require.NoError(t, store.Health.Ping(ctx))

	day, err := domain.ParseDate("2026-01-05")
	require.NoError(t, err)
	facts, err := store.Reader.ReadAssignedFacts(ctx, domain.SingleDay(day))
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpen_BadPostgresURL(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: config.DriverPostgres, URL: "://nope"})
	assert.ErrorContains(t, err, "parse database url")
}

func TestStore_CloseWithoutCloser(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}
