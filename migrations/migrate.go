// Package migrations embeds the schema of the credential store and applies
// it with goose. Each supported SQL dialect has its own directory.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Dialects understood by Migrate. The values are goose dialect names.
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "pgx"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedMigrations embed.FS

var dialectDirs = map[string]string{
	DialectSQLite:   "sqlite",
	DialectPostgres: "postgres",
}

// Migrate applies every pending migration for dialect to db.
func Migrate(db *sql.DB, dialect string) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	dir, ok := dialectDirs[dialect]
	if !ok {
		return fmt.Errorf("migration error: unsupported dialect %q", dialect)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
