// Package dbtest provides a migrated throwaway database for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/healthconnect-api/internal/database"
)

// Open creates a SQLite database in a temp directory, applies the
// embedded migrations and closes the pool when the test ends.
func Open(t testing.TB) *database.DB {
	t.Helper()
	return OpenURL(t, "sqlite://"+filepath.Join(t.TempDir(), "test.db"))
}

// OpenURL migrates and opens the database behind url.
func OpenURL(t testing.TB, url string) *database.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, database.MigrateUp(ctx, url))
	db, err := database.Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
