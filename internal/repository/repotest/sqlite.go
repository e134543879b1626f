// Package repotest provides an in-memory SQLite store for tests.
package repotest

import (
	"testing"

	"github.com/Domenick1991/periodic-tables/internal/repository"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// NewSQLiteStore returns a migrated store backed by a private in-memory database.
// The pool is limited to one connection so every query sees the same database.
func NewSQLiteStore(t testing.TB) *repository.GormStore {
	t.Helper()

	log, _ := test.NewNullLogger()
	db, err := repository.OpenGorm("sqlite", ":memory:", log)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := repository.NewGormStore(db)
	require.NoError(t, store.Migrate())
	return store
}
