// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"shop/internal/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated, private in-memory SQLite database that is closed
// when the test ends. The pool is pinned to one connection so a transaction
// never contends with itself for the shared-cache lock.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(database.Config{
		Driver:       database.DriverSQLite,
		DSN:          dsn,
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, database.DriverSQLite))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
