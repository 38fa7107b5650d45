package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSQLiteIsIdempotent(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "olimp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db, SQLite))
	require.NoError(t, Migrate(ctx, db, SQLite))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)

	for _, table := range []string{"users", "rooms", "reservations", "authors"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestIsDuplicateKeySQLite(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "olimp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db, SQLite))

	_, err = db.ExecContext(ctx, `INSERT INTO users (login, password_hash) VALUES ('ola', 'x')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO users (login, password_hash) VALUES ('ola', 'y')`)
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
	assert.False(t, IsDuplicateKey(nil))
}

func TestSplitStatements(t *testing.T) {
	src := "-- header\nCREATE TABLE a (id INT);\n\n-- only a comment\n;\nCREATE TABLE b (id INT);\n"
	stmts := splitStatements(src)
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "CREATE TABLE a")
	assert.Equal(t, "CREATE TABLE b (id INT)", stmts[1])
}
