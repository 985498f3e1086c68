package store

import (
	"context"
	"time"

	"github.com/MKhiriev/crowdblog-auth/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists [models.User] accounts.
type UserRepository interface {
	// CreateUser inserts user and returns it with UserID and timestamps set.
	// Returns ErrUsernameAlreadyExists, ErrEmailAlreadyExists or
	// ErrFacebookIDAlreadyExists on a uniqueness conflict.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// FindUserByID returns ErrNoUserWasFound when no row matches.
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByFacebookID(ctx context.Context, facebookID string) (models.User, error)
	// UpdateProfile applies the non-nil fields of update and returns the
	// stored user.
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.User, error)
}

// SessionRepository persists [models.Session] records. Sessions are
// append-only.
type SessionRepository interface {
	// CreateSession returns ErrSessionAlreadyExists on an id collision.
	CreateSession(ctx context.Context, session models.Session) (models.Session, error)
	// ListUserSessions returns the sessions of userID, newest first.
	ListUserSessions(ctx context.Context, userID int64) ([]models.Session, error)
}

// PasswordResetRepository persists [models.PasswordReset] records.
type PasswordResetRepository interface {
	CreatePasswordReset(ctx context.Context, reset models.PasswordReset) error
	// FindPasswordReset returns ErrPasswordResetNotFound when no row matches.
	FindPasswordReset(ctx context.Context, tokenHash string) (models.PasswordReset, error)
	// ConsumePasswordReset marks the reset used and stores passwordHash for
	// its user in one transaction. It returns ErrPasswordResetNotFound when
	// the record was already used concurrently.
	ConsumePasswordReset(ctx context.Context, reset models.PasswordReset, passwordHash string, now time.Time) error
}

// SocialProfileCache stores verified social profiles keyed by the hash of
// the provider access token.
type SocialProfileCache interface {
	// GetProfile returns ErrCacheMiss when key is absent.
	GetProfile(ctx context.Context, key string) (models.SocialProfile, error)
	SetProfile(ctx context.Context, key string, profile models.SocialProfile, ttl time.Duration) error
}

// HealthChecker reports whether the storage backend is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
