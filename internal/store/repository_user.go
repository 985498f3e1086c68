package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
	"github.com/MKhiriev/crowdblog-auth/models"
)

// userRepository is the SQL implementation of [UserRepository] over the
// "users" table. It works with both supported dialects.
type userRepository struct {
	logger *logger.Logger
	db     *DB
	now    func() time.Time
}

// NewUserRepository constructs a [UserRepository] backed by db.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// CreateUser inserts a user and returns the stored row. Missing timestamps
// and role are filled in.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now().UTC()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.Email = utils.NormalizeEmail(user.Email)

	query, args, err := r.db.insertUserQuery(user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error building query")
		return models.User{}, storageError(ErrBuildingSQLQuery, err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&user.UserID)
	if err != nil {
		if conflict := r.conflictError(err); conflict != nil {
			log.Debug().Err(err).Str("func", "*userRepository.CreateUser").Msg("user already exists")
			return models.User{}, conflict
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")
		return models.User{}, storageError(ErrExecutingQuery, err)
	}

	return user, nil
}

func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByID", sq.Eq{"id": userID})
}

// FindUserByUsername matches usernames case-insensitively, the same way the
// users_username_lower_key index enforces uniqueness.
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findUser(ctx, "*userRepository.FindUserByUsername", sq.Expr("lower(username) = ?", strings.ToLower(username)))
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return models.User{}, ErrNoUserWasFound
	}
	return r.findUser(ctx, "*userRepository.FindUserByEmail", sq.Eq{"email": email})
}

func (r *userRepository) FindUserByFacebookID(ctx context.Context, facebookID string) (models.User, error) {
	if facebookID == "" {
		return models.User{}, ErrNoUserWasFound
	}
	return r.findUser(ctx, "*userRepository.FindUserByFacebookID", sq.Eq{"facebook_id": facebookID})
}

// UpdateProfile applies the non-nil fields of update. An empty email clears
// the stored one.
func (r *userRepository) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	if update.Email != nil {
		email := utils.NormalizeEmail(*update.Email)
		update.Email = &email
	}

	query, args, err := r.db.updateProfileQuery(update, r.now().UTC())
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateProfile").Msg("error building query")
		return models.User{}, storageError(ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if conflict := r.conflictError(err); conflict != nil {
			return models.User{}, conflict
		}
		log.Err(err).Str("func", "*userRepository.UpdateProfile").Msg("error updating profile")
		return models.User{}, storageError(ErrExecutingQuery, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return models.User{}, ErrNoUserWasFound
	}

	return r.FindUserByID(ctx, update.UserID)
}

func (r *userRepository) findUser(ctx context.Context, funcName string, where sq.Sqlizer) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.selectUserQuery(where)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error building query")
		return models.User{}, storageError(ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", funcName).Msg("error selecting user")
		return models.User{}, storageError(ErrScanningRow, err)
	}

	return user, nil
}

// conflictError maps a unique violation to the matching domain error, or
// returns nil when err is not a unique violation.
func (r *userRepository) conflictError(err error) error {
	if r.db.errorClassificator.Classify(err) != UniqueViolation {
		return nil
	}

	constraint := r.db.errorClassificator.Constraint(err)
	switch {
	case strings.Contains(constraint, "email"):
		return ErrEmailAlreadyExists
	case strings.Contains(constraint, "facebook_id"):
		return ErrFacebookIDAlreadyExists
	default:
		return ErrUsernameAlreadyExists
	}
}
