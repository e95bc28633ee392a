package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigration_NewDatabase(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test_new.db"))
	require.NoError(t, err)
	defer db.Close()

	migrator := NewMigrator(db)
	version, err := migrator.Version()
	require.Error(t, err, "schema_migrations does not exist yet")
	assert.Equal(t, 0, version)

	require.NoError(t, migrator.Migrate())

	version, err = migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, version)

	for _, table := range []string{"projects", "tasks", "completion_logs"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}

	var inbox string
	require.NoError(t, db.QueryRow("SELECT title FROM projects WHERE id = 'inbox'").Scan(&inbox))
	assert.Equal(t, "Inbox", inbox)
}

func TestMigration_Idempotent(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test_idem.db"))
	require.NoError(t, err)
	defer db.Close()

	migrator := NewMigrator(db)
	require.NoError(t, migrator.Migrate())
	require.NoError(t, migrator.Migrate())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM projects WHERE id = 'inbox'").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSplitSQLStatements(t *testing.T) {
	script := `
-- comment line
CREATE TABLE a (id TEXT);
  -- indented comment
INSERT INTO a VALUES ('x');

`
	stmts := splitSQLStatements(script)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (id TEXT)", stmts[0])
	assert.Equal(t, "INSERT INTO a VALUES ('x')", stmts[1])
}

func TestDSN(t *testing.T) {
	assert.Contains(t, DSN(":memory:"), "mode=memory")
	assert.Equal(t, "file:/tmp/x.db?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", DSN("/tmp/x.db"))
	assert.Equal(t, "file:y?mode=memory&_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", DSN("file:y?mode=memory"))
}
