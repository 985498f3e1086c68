// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/migrations"
)

// Dialect names the SQL engine behind a [DB]. Its value is the goose
// dialect name used by migrations.
type Dialect string

const (
	DialectSQLite   Dialect = migrations.DialectSQLite
	DialectPostgres Dialect = migrations.DialectPostgres
)

// DialectFromDSN returns DialectPostgres for postgres:// and postgresql://
// URLs and DialectSQLite for everything else.
func DialectFromDSN(dsn string) Dialect {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres
	}

	return DialectSQLite
}

// DB is the relational handle shared by all repositories. It carries the
// query builder and error classifier matching its dialect.
type DB struct {
	*sql.DB
	dialect            Dialect
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func newDB(conn *sql.DB, dialect Dialect, classifier ErrorClassificator, log *logger.Logger) *DB {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == DialectPostgres {
		placeholder = sq.Dollar
	}

	return &DB{
		DB:                 conn,
		dialect:            dialect,
		builder:            sq.StatementBuilder.PlaceholderFormat(placeholder),
		errorClassificator: classifier,
		logger:             log,
	}
}

// NewConnect opens the database described by cfg.DSN, choosing the driver
// from the DSN shape.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if DialectFromDSN(cfg.DSN) == DialectPostgres {
		return NewConnectPostgres(ctx, cfg, log)
	}

	return NewConnectSQLite(ctx, cfg, log)
}

// Dialect returns the SQL engine of db.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Migrate applies pending schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, string(db.dialect))
}

// Ping implements [HealthChecker].
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}
