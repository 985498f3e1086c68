package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/models"
)

type passwordResetRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewPasswordResetRepository constructs a [PasswordResetRepository] backed
// by db.
func NewPasswordResetRepository(db *DB, logger *logger.Logger) PasswordResetRepository {
	logger.Debug().Msg("creating password reset repository")
	return &passwordResetRepository{
		db:     db,
		logger: logger,
	}
}

func (r *passwordResetRepository) CreatePasswordReset(ctx context.Context, reset models.PasswordReset) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.insertPasswordResetQuery(reset)
	if err != nil {
		log.Err(err).Str("func", "*passwordResetRepository.CreatePasswordReset").Msg("error building query")
		return storageError(ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*passwordResetRepository.CreatePasswordReset").Msg("error inserting password reset")
		return storageError(ErrExecutingQuery, err)
	}

	return nil
}

func (r *passwordResetRepository) FindPasswordReset(ctx context.Context, tokenHash string) (models.PasswordReset, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.selectPasswordResetQuery(tokenHash)
	if err != nil {
		log.Err(err).Str("func", "*passwordResetRepository.FindPasswordReset").Msg("error building query")
		return models.PasswordReset{}, storageError(ErrBuildingSQLQuery, err)
	}

	reset, err := scanPasswordReset(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PasswordReset{}, ErrPasswordResetNotFound
		}
		log.Err(err).Str("func", "*passwordResetRepository.FindPasswordReset").Msg("error selecting password reset")
		return models.PasswordReset{}, storageError(ErrScanningRow, err)
	}

	return reset, nil
}

// ConsumePasswordReset marks reset used and replaces the user's password
// hash. The "used_at IS NULL" guard makes a second concurrent redemption
// affect no rows, which is reported as ErrPasswordResetNotFound.
func (r *passwordResetRepository) ConsumePasswordReset(ctx context.Context, reset models.PasswordReset, passwordHash string, now time.Time) error {
	log := logger.FromContext(ctx)

	markQuery, markArgs, err := r.db.markPasswordResetUsedQuery(reset.TokenHash, now.UTC())
	if err != nil {
		return storageError(ErrBuildingSQLQuery, err)
	}
	updateQuery, updateArgs, err := r.db.updatePasswordQuery(reset.UserID, passwordHash, now.UTC())
	if err != nil {
		return storageError(ErrBuildingSQLQuery, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*passwordResetRepository.ConsumePasswordReset").Msg("error beginning transaction")
		return storageError(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, markQuery, markArgs...)
	if err != nil {
		log.Err(err).Str("func", "*passwordResetRepository.ConsumePasswordReset").Msg("error marking reset used")
		return storageError(ErrExecutingQuery, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageError(ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrPasswordResetNotFound
	}

	res, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		log.Err(err).Str("func", "*passwordResetRepository.ConsumePasswordReset").Msg("error updating password")
		return storageError(ErrExecutingQuery, err)
	}
	if affected, err = res.RowsAffected(); err == nil && affected == 0 {
		return ErrNoUserWasFound
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*passwordResetRepository.ConsumePasswordReset").Msg("error committing transaction")
		return storageError(ErrCommitingTransaction, err)
	}

	return nil
}
