// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/migrations"
	sq "github.com/Masterminds/squirrel"
)

// ErrorClassificator decides whether a driver error is transient.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	// IsUniqueViolation reports whether err is a primary key or unique
	// constraint violation.
	IsUniqueViolation(err error) bool
}

// DB is a *sql.DB bound to one SQL dialect.
type DB struct {
	*sql.DB
	dialect            string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func newDB(conn *sql.DB, dialect string, placeholder sq.PlaceholderFormat, classifier ErrorClassificator, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		dialect:            dialect,
		builder:            sq.StatementBuilder.PlaceholderFormat(placeholder),
		errorClassificator: classifier,
		logger:             log,
	}
}

// Migrate applies the embedded migrations for the DB's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// classify wraps err with [ErrUnavailable] when it is transient so callers
// can tell a broken store from a failed query. cause is one of the low-level
// sentinels from errors.go.
func (db *DB) classify(cause, err error) error {
	if err == nil {
		return nil
	}
	if db.isUnavailable(err) {
		return fmt.Errorf("%w: %w: %w", ErrUnavailable, cause, err)
	}
	return fmt.Errorf("%w: %w", cause, err)
}

func (db *DB) isUnavailable(err error) bool {
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, driver.ErrBadConn):
		return true
	}
	if db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable {
		return true
	}
	// pgx reports dial failures without a SQLSTATE code.
	return strings.Contains(err.Error(), "failed to connect")
}

func (db *DB) isUniqueViolation(err error) bool {
	return db.errorClassificator != nil && db.errorClassificator.IsUniqueViolation(err)
}

// rollback is deferred after BeginTx; it is a no-op once committed.
func rollback(tx *sql.Tx, log *logger.Logger) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Err(err).Msg("error rolling back transaction")
	}
}
