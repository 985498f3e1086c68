package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/models"
)

func TestPasswordResetRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	users := NewUserRepository(db, logger.Nop())
	repo := NewPasswordResetRepository(db, logger.Nop())

	alice := mustCreateUser(t, users, "alice")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	reset := models.PasswordReset{
		TokenHash: "hash-1",
		UserID:    alice.UserID,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, repo.CreatePasswordReset(ctx, reset))

	found, err := repo.FindPasswordReset(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, found.UserID)
	assert.Nil(t, found.UsedAt)
	assert.True(t, found.ExpiresAt.Equal(now.Add(time.Hour)))
	assert.True(t, found.IsUsable(now))

	_, err = repo.FindPasswordReset(ctx, "unknown")
	assert.ErrorIs(t, err, ErrPasswordResetNotFound)

	require.NoError(t, repo.ConsumePasswordReset(ctx, found, "new-hash", now.Add(time.Minute)))

	updated, err := users.FindUserByID(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", updated.PasswordHash)

	used, err := repo.FindPasswordReset(ctx, "hash-1")
	require.NoError(t, err)
	require.NotNil(t, used.UsedAt)
	assert.False(t, used.IsUsable(now))

	// second redemption loses
	err = repo.ConsumePasswordReset(ctx, found, "other-hash", now.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrPasswordResetNotFound)

	again, err := users.FindUserByID(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", again.PasswordHash)
}

func TestPasswordResetRepository_ConsumeRollsBack(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewPasswordResetRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE password_resets SET used_at = \$1 WHERE token_hash = \$2 AND used_at IS NULL`).
		WithArgs(sqlmock.AnyArg(), "h").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET password_hash = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs("new", sqlmock.AnyArg(), int64(5)).
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.ConsumePasswordReset(ctx, models.PasswordReset{TokenHash: "h", UserID: 5}, "new", time.Now())
	assert.ErrorIs(t, err, ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepository_BeginFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPasswordResetRepository(db, logger.Nop())

	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	err := repo.ConsumePasswordReset(context.Background(), models.PasswordReset{TokenHash: "h", UserID: 5}, "new", time.Now())
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}
