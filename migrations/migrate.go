// Package migrations embeds the goose schema migrations for every supported
// SQL dialect.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// ErrUnknownDialect is returned for a dialect without embedded migrations.
var ErrUnknownDialect = errors.New("unknown migration dialect")

// dirs maps a store dialect to its goose dialect and migration directory.
var dirs = map[string]struct{ gooseDialect, dir string }{
	"postgres": {"pgx", "postgres"},
	"sqlite3":  {"sqlite3", "sqlite"},
}

// Migrate applies every pending migration of dialect ("postgres" or
// "sqlite3") to db.
func Migrate(db *sql.DB, dialect string) error {
	if db == nil {
		return fmt.Errorf("migration error: nil database")
	}

	d, ok := dirs[dialect]
	if !ok {
		return fmt.Errorf("migration error: %w: %q", ErrUnknownDialect, dialect)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(d.gooseDialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, d.dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
