package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/crowdblog-auth/internal/adapter"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/models"
)

type clientAuthService struct {
	adapter adapter.ServerAdapter

	// session is owned by the client app; this service only writes it.
	session *models.ClientSession

	logger *logger.Logger
}

func NewClientAuthService(serverAdapter adapter.ServerAdapter, session *models.ClientSession, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{adapter: serverAdapter, session: session, logger: logger}
}

func (a *clientAuthService) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error) {
	resp, err := a.adapter.Register(ctx, req)
	if err != nil {
		a.logger.Err(err).Str("func", "*clientAuthService.Register").Str("username", req.Username).Msg("registration failed")
		return models.RegisterResponse{}, fmt.Errorf("%w: %w", ErrRegisterOnServer, mapAdapterError(err))
	}

	return resp, nil
}

func (a *clientAuthService) Login(ctx context.Context, username, password string) (*models.ClientSession, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrInvalidDataProvided
	}

	a.Logout()

	resp, err := a.adapter.CreateSession(ctx, models.CreateSessionRequest{Username: username, Password: password})
	if err != nil {
		a.logger.Err(err).Str("func", "*clientAuthService.Login").Str("username", username).Msg("login failed")
		return nil, fmt.Errorf("%w: %w", ErrLoginOnServer, mapAdapterError(err))
	}

	a.adapter.SetToken(resp.Token)
	a.session.Set(resp.Token, resp.SessionID, resp.User.Username, models.AuthMethodPassword)

	a.logger.Info().Str("username", resp.User.Username).Str("session_id", resp.SessionID).Msg("logged in")

	return a.session, nil
}

// ExchangeSocialToken sends accessToken to the server once. On success the
// username is filled in from GET /users/me when that call succeeds; the
// login itself does not depend on it.
func (a *clientAuthService) ExchangeSocialToken(ctx context.Context, accessToken string) (*models.ClientSession, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, fmt.Errorf("%w: %w", ErrSocialLoginFailed, ErrInvalidDataProvided)
	}

	a.Logout()

	resp, err := a.adapter.ExchangeFacebookToken(ctx, models.SocialTokenRequest{AccessToken: accessToken})
	if err != nil {
		a.logger.Err(err).Str("func", "*clientAuthService.ExchangeSocialToken").Msg("social login failed")
		return nil, fmt.Errorf("%w: %w", ErrSocialLoginFailed, mapAdapterError(err))
	}
	if resp.AccessToken == "" {
		a.logger.Error().Str("func", "*clientAuthService.ExchangeSocialToken").Msg("server returned no token")
		return nil, fmt.Errorf("%w: empty token in response", ErrSocialLoginFailed)
	}

	a.adapter.SetToken(resp.AccessToken)
	a.session.Set(resp.AccessToken, resp.SessionID, "", models.AuthMethodFacebook)

	if user, err := a.adapter.Me(ctx); err == nil {
		a.session.Set(resp.AccessToken, resp.SessionID, user.Username, models.AuthMethodFacebook)
	} else {
		a.logger.Warn().Err(err).Str("func", "*clientAuthService.ExchangeSocialToken").Msg("could not load profile after social login")
	}

	a.logger.Info().Str("session_id", resp.SessionID).Msg("logged in with facebook")

	return a.session, nil
}

func (a *clientAuthService) Me(ctx context.Context) (models.User, error) {
	if !a.session.IsAuthenticated() {
		return models.User{}, ErrNotLoggedIn
	}

	user, err := a.adapter.Me(ctx)
	if err != nil {
		return models.User{}, a.authedError(err)
	}

	return user, nil
}

func (a *clientAuthService) Sessions(ctx context.Context) ([]models.Session, error) {
	if !a.session.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}

	sessions, err := a.adapter.Sessions(ctx)
	if err != nil {
		return nil, a.authedError(err)
	}

	return sessions, nil
}

func (a *clientAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := a.adapter.RequestPasswordReset(ctx, models.PasswordResetRequest{Email: strings.TrimSpace(email)}); err != nil {
		return mapAdapterError(err)
	}
	return nil
}

func (a *clientAuthService) ServerVersion(ctx context.Context) (string, error) {
	version, err := a.adapter.Version(ctx)
	if err != nil {
		return "", mapAdapterError(err)
	}
	return version, nil
}

func (a *clientAuthService) Logout() {
	a.adapter.SetToken("")
	a.session.Clear()
}

// authedError maps err and drops the session when the server no longer
// accepts the token.
func (a *clientAuthService) authedError(err error) error {
	mapped := mapAdapterError(err)
	if errors.Is(mapped, ErrUnauthenticated) {
		a.logger.Info().Msg("token rejected by server, logging out")
		a.Logout()
	}
	return mapped
}
