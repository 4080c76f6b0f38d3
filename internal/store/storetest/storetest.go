// Package storetest builds throwaway stores for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"habitual-api/internal/store"
)

// New opens a migrated SQLite store in a temp dir.
func New(t testing.TB, opts ...store.Option) *store.SQLStore {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "habitual.db")
	conn, db, err := store.Open(store.DriverSQLite, dsn, store.PoolConf{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, store.Migrate(context.Background(), conn))

	s, err := store.NewSQLStore(conn, store.DriverSQLite, opts...)
	require.NoError(t, err)
	return s
}
