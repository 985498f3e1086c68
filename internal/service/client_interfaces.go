package service

import (
	"context"

	"github.com/MKhiriev/crowdblog-auth/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// ClientAuthService drives authentication from the client shell. Every
// method that succeeds in logging in updates the shared
// *models.ClientSession; every failure leaves it unauthenticated.
type ClientAuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error)

	// Login authenticates with username and password.
	Login(ctx context.Context, username, password string) (*models.ClientSession, error)

	// ExchangeSocialToken trades a Facebook access token for an internal
	// token. It sends exactly one request and never retries; any failure
	// is reported as ErrSocialLoginFailed.
	ExchangeSocialToken(ctx context.Context, accessToken string) (*models.ClientSession, error)

	Me(ctx context.Context) (models.User, error)

	Sessions(ctx context.Context) ([]models.Session, error)

	RequestPasswordReset(ctx context.Context, email string) error

	ServerVersion(ctx context.Context) (string, error)

	// Logout discards the token held by the client.
	Logout()
}
