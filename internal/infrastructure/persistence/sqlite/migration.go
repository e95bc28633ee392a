package sqlite

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the newest version in migrations
const schemaVersion = 1

type migration struct {
	version     int
	description string
	script      string
}

var migrations = []migration{
	{version: 1, description: "initial schema", script: schemaSQL},
}

const migrationsTableSQL = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	description TEXT
)`

// Migrator brings a database up to schemaVersion
type Migrator struct {
	db *sql.DB
}

// NewMigrator creates a migrator for db
func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// Migrate applies every migration newer than the recorded version
func (m *Migrator) Migrate() error {
	if _, err := m.db.Exec(migrationsTableSQL); err != nil {
		return fmt.Errorf("create migrations table failed: %w", err)
	}
	current, err := m.Version()
	if err != nil {
		return fmt.Errorf("check schema version failed: %w", err)
	}
	for _, mig := range migrations {
		if mig.version <= current {
			continue
		}
		if err := m.apply(mig); err != nil {
			return fmt.Errorf("apply migration %d (%s) failed: %w", mig.version, mig.description, err)
		}
	}
	return nil
}

// apply runs one migration and records it in the same transaction
func (m *Migrator) apply(mig migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, stmt := range splitSQLStatements(mig.script) {
		if strings.Contains(stmt, "schema_migrations") {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("statement %d: %w\n%s", i, err, stmt)
		}
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
		mig.version, mig.description); err != nil {
		return err
	}
	return tx.Commit()
}

// splitSQLStatements drops "--" comment lines and splits on semicolons.
// Statements must not contain literal semicolons.
func splitSQLStatements(script string) []string {
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var stmts []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// Version returns the newest applied version, 0 when none is recorded.
// It fails when the migrations table does not exist yet.
func (m *Migrator) Version() (int, error) {
	var version int
	err := m.db.QueryRow("SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}
