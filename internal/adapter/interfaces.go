// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter holds the outbound integrations of the crowdblog auth
// service and its client.
//
//   - [ServerAdapter] is the client's view of the auth server REST API
//     ([NewHTTPServerAdapter]).
//   - [IdentityProvider] verifies third-party access tokens on the server
//     ([NewFacebookIdentityProvider]).
//   - [Mailer] delivers password reset links ([NewSendGridMailer],
//     [NewLogMailer]).
//
// HTTP status codes returned by the server are mapped by mapHTTPError to the
// sentinel errors in errors.go so callers can use [errors.Is].
package adapter

import (
	"context"
	"time"

	"github.com/MKhiriev/crowdblog-auth/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// ServerAdapter is the client transport to the auth server.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to authenticated requests.
	// An empty token clears it.
	SetToken(token string)

	// Token returns the stored bearer token, or "".
	Token() string

	// Register calls POST /users.
	Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error)

	// CreateSession calls POST /session. It does not store the returned
	// token; the caller decides what to do with it.
	CreateSession(ctx context.Context, req models.CreateSessionRequest) (models.CreateSessionResponse, error)

	// ExchangeFacebookToken calls POST /auth/facebook exactly once.
	ExchangeFacebookToken(ctx context.Context, req models.SocialTokenRequest) (models.SocialTokenResponse, error)

	// Me calls GET /users/me with the stored token.
	Me(ctx context.Context) (models.User, error)

	// Sessions calls GET /users/me/sessions with the stored token.
	Sessions(ctx context.Context) ([]models.Session, error)

	// RequestPasswordReset calls POST /password-reset.
	RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error

	// Version calls GET /api/version.
	Version(ctx context.Context) (string, error)
}

// IdentityProvider verifies an access token issued by an external identity
// provider and returns the identity it belongs to.
type IdentityProvider interface {
	// VerifyToken returns ErrIdentityRejected when the provider says the
	// token is invalid or belongs to another application, and
	// ErrIdentityUnavailable when the provider cannot be reached.
	VerifyToken(ctx context.Context, accessToken string) (models.SocialProfile, error)
}

// Mailer delivers transactional email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, user models.User, link string, expiresAt time.Time) error
}
