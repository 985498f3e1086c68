package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/models"
)

// newMockDB returns a postgres-flavoured DB over sqlmock.
func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return newDB(conn, DialectPostgres, NewPostgresErrorClassifier(), logger.Nop()), mock
}

// newSQLiteDB returns a migrated SQLite database in a temp directory.
func newSQLiteDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewConnectSQLite(context.Background(), config.DB{DSN: filepath.Join(t.TempDir(), "test.db")}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func mustCreateUser(t *testing.T, repo UserRepository, username string) models.User {
	t.Helper()
	user, err := repo.CreateUser(context.Background(), models.User{Username: username, PasswordHash: "hash"})
	require.NoError(t, err)
	return user
}
