package service

import (
	"context"

	"github.com/MKhiriev/crowdblog-auth/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// TokenService mints and verifies signed bearer tokens.
type TokenService interface {
	// Issue signs a token for userID. sessionID becomes the "jti" claim
	// and may be empty.
	Issue(ctx context.Context, userID int64, sessionID string) (models.Token, error)
	// Verify returns ErrExpiredToken for an otherwise valid token past its
	// expiry and ErrInvalidToken for anything else that fails.
	Verify(ctx context.Context, tokenString string) (models.Claims, error)
}

type AuthService interface {
	RegisterUser(ctx context.Context, req models.RegisterRequest) (models.User, error)
	// CreateSession authenticates with username and password, records a
	// session and issues a token bound to it.
	CreateSession(ctx context.Context, req models.CreateSessionRequest) (models.SessionResult, error)
}

type SocialAuthService interface {
	// ExchangeFacebookToken verifies a Facebook access token and logs the
	// matching user in, creating the account on first use.
	ExchangeFacebookToken(ctx context.Context, accessToken string) (models.SessionResult, error)
}

type UserService interface {
	GetUser(ctx context.Context, userID int64) (models.User, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.User, error)
	ListSessions(ctx context.Context, userID int64) ([]models.Session, error)
}

type PasswordResetService interface {
	// RequestReset mails a reset link in the background when email belongs
	// to a user. It reports success for unknown addresses as well.
	RequestReset(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, req models.PasswordResetConfirmRequest) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
