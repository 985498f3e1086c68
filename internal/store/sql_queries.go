package store

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/crowdblog-auth/models"
)

var (
	userColumns = []string{
		"id",
		"username",
		"password_hash",
		"email",
		"bio",
		"facebook_handle",
		"twitter_handle",
		"instagram_handle",
		"role",
		"avatar_url",
		"facebook_id",
		"created_at",
		"updated_at",
	}

	sessionColumns = []string{"session_id", "user_id", "auth_method", "created_at"}

	passwordResetColumns = []string{"token_hash", "user_id", "expires_at", "used_at", "created_at"}
)

func (db *DB) insertUserQuery(user models.User) (string, []any, error) {
	return db.builder.
		Insert(user.TableName()).
		Columns(userColumns[1:]...).
		Values(
			user.Username,
			user.PasswordHash,
			nullString(user.Email),
			user.Bio,
			user.FacebookHandle,
			user.TwitterHandle,
			user.InstagramHandle,
			user.Role,
			user.AvatarURL,
			nullString(user.FacebookID),
			user.CreatedAt,
			user.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
}

func (db *DB) selectUserQuery(where sq.Sqlizer) (string, []any, error) {
	return db.builder.
		Select(userColumns...).
		From(models.User{}.TableName()).
		Where(where).
		Limit(1).
		ToSql()
}

// updateProfileQuery builds an UPDATE touching only the non-nil fields of
// update. updated_at is always refreshed.
func (db *DB) updateProfileQuery(update models.ProfileUpdate, now time.Time) (string, []any, error) {
	q := db.builder.
		Update(models.User{}.TableName()).
		Set("updated_at", now)

	if update.Email != nil {
		q = q.Set("email", nullString(*update.Email))
	}
	if update.Bio != nil {
		q = q.Set("bio", *update.Bio)
	}
	if update.FacebookHandle != nil {
		q = q.Set("facebook_handle", *update.FacebookHandle)
	}
	if update.TwitterHandle != nil {
		q = q.Set("twitter_handle", *update.TwitterHandle)
	}
	if update.InstagramHandle != nil {
		q = q.Set("instagram_handle", *update.InstagramHandle)
	}
	if update.AvatarURL != nil {
		q = q.Set("avatar_url", *update.AvatarURL)
	}

	return q.
		Where(sq.Eq{"id": update.UserID}).
		ToSql()
}

func (db *DB) insertSessionQuery(session models.Session) (string, []any, error) {
	return db.builder.
		Insert(session.TableName()).
		Columns(sessionColumns...).
		Values(session.SessionID, session.UserID, string(session.AuthMethod), session.CreatedAt).
		ToSql()
}

func (db *DB) selectUserSessionsQuery(userID int64) (string, []any, error) {
	return db.builder.
		Select(sessionColumns...).
		From(models.Session{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "session_id").
		ToSql()
}

const passwordResetsTable = "password_resets"

func (db *DB) insertPasswordResetQuery(reset models.PasswordReset) (string, []any, error) {
	return db.builder.
		Insert(passwordResetsTable).
		Columns(passwordResetColumns...).
		Values(reset.TokenHash, reset.UserID, reset.ExpiresAt, nil, reset.CreatedAt).
		ToSql()
}

func (db *DB) selectPasswordResetQuery(tokenHash string) (string, []any, error) {
	return db.builder.
		Select(passwordResetColumns...).
		From(passwordResetsTable).
		Where(sq.Eq{"token_hash": tokenHash}).
		ToSql()
}

func (db *DB) markPasswordResetUsedQuery(tokenHash string, now time.Time) (string, []any, error) {
	return db.builder.
		Update(passwordResetsTable).
		Set("used_at", now).
		Where(sq.Eq{"token_hash": tokenHash, "used_at": nil}).
		ToSql()
}

func (db *DB) updatePasswordQuery(userID int64, passwordHash string, now time.Time) (string, []any, error) {
	return db.builder.
		Update(models.User{}.TableName()).
		Set("password_hash", passwordHash).
		Set("updated_at", now).
		Where(sq.Eq{"id": userID}).
		ToSql()
}

// nullString stores empty optional values as NULL so unique indexes ignore
// them.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user       models.User
		email      sql.NullString
		facebookID sql.NullString
	)

	err := row.Scan(
		&user.UserID,
		&user.Username,
		&user.PasswordHash,
		&email,
		&user.Bio,
		&user.FacebookHandle,
		&user.TwitterHandle,
		&user.InstagramHandle,
		&user.Role,
		&user.AvatarURL,
		&facebookID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	user.Email = email.String
	user.FacebookID = facebookID.String

	return user, nil
}

func scanSession(row rowScanner) (models.Session, error) {
	var (
		session models.Session
		method  string
	)
	if err := row.Scan(&session.SessionID, &session.UserID, &method, &session.CreatedAt); err != nil {
		return models.Session{}, err
	}
	session.AuthMethod = models.AuthMethod(method)

	return session, nil
}

func scanPasswordReset(row rowScanner) (models.PasswordReset, error) {
	var (
		reset  models.PasswordReset
		usedAt sql.NullTime
	)
	if err := row.Scan(&reset.TokenHash, &reset.UserID, &reset.ExpiresAt, &usedAt, &reset.CreatedAt); err != nil {
		return models.PasswordReset{}, err
	}
	if usedAt.Valid {
		reset.UsedAt = &usedAt.Time
	}

	return reset, nil
}
