package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/crowdblog-auth/internal/adapter"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
	"github.com/MKhiriev/crowdblog-auth/internal/validators"
	"github.com/MKhiriev/crowdblog-auth/models"
)

// socialAuthService logs users in with a Facebook access token.
type socialAuthService struct {
	provider adapter.IdentityProvider

	// cache holds verified profiles keyed by the SHA-256 of the access
	// token. The raw token never leaves this service.
	cache    store.SocialProfileCache
	cacheTTL time.Duration

	userRepository store.UserRepository
	sessions       *sessionIssuer
	validator      validators.Validator

	now    func() time.Time
	logger *logger.Logger
}

// NewSocialAuthService constructs a SocialAuthService. cache may be the
// no-op cache; cacheTTL is the upper bound of how long a verified token is
// trusted without asking the provider again.
func NewSocialAuthService(
	provider adapter.IdentityProvider,
	cache store.SocialProfileCache,
	cacheTTL time.Duration,
	userRepository store.UserRepository,
	sessionRepository store.SessionRepository,
	tokenService TokenService,
	logger *logger.Logger,
) SocialAuthService {
	return &socialAuthService{
		provider:       provider,
		cache:          cache,
		cacheTTL:       cacheTTL,
		userRepository: userRepository,
		sessions:       newSessionIssuer(sessionRepository, tokenService),
		validator:      validators.NewCredentialsValidator(),
		now:            time.Now,
		logger:         logger,
	}
}

// ExchangeFacebookToken verifies accessToken and starts a session for the
// Facebook identity behind it.
//
// Returns:
//   - ErrInvalidDataProvided for an empty token.
//   - ErrUpstreamIdentity when the provider rejects the token or cannot be
//     reached; the adapter error stays in the chain.
//   - A wrapped storage error if the user or session cannot be stored.
func (s *socialAuthService) ExchangeFacebookToken(ctx context.Context, accessToken string) (models.SessionResult, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, models.SocialTokenRequest{AccessToken: accessToken}); err != nil {
		log.Error().Err(err).Msg("invalid social token provided")
		return models.SessionResult{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	profile, err := s.verify(ctx, accessToken)
	if err != nil {
		return models.SessionResult{}, err
	}

	user, err := s.findOrCreateUser(ctx, profile)
	if err != nil {
		return models.SessionResult{}, err
	}

	return s.sessions.start(ctx, user, models.AuthMethodFacebook)
}

// verify consults the profile cache first and the identity provider on a
// miss. Cache failures are logged and otherwise ignored.
func (s *socialAuthService) verify(ctx context.Context, accessToken string) (models.SocialProfile, error) {
	log := logger.FromContext(ctx)
	key := utils.HashToken(accessToken)

	profile, err := s.cache.GetProfile(ctx, key)
	switch {
	case err == nil:
		log.Debug().Str("facebook_id", profile.ExternalID).Msg("social profile served from cache")
		return profile, nil
	case !errors.Is(err, store.ErrCacheMiss):
		log.Warn().Err(err).Str("func", "*socialAuthService.verify").Msg("social profile cache unavailable")
	}

	profile, err = s.provider.VerifyToken(ctx, accessToken)
	if err != nil {
		log.Err(err).Str("func", "*socialAuthService.verify").Msg("identity provider verification failed")
		return models.SocialProfile{}, fmt.Errorf("%w: %w", ErrUpstreamIdentity, err)
	}

	if ttl := s.profileTTL(profile); ttl > 0 {
		if err := s.cache.SetProfile(ctx, key, profile, ttl); err != nil {
			log.Warn().Err(err).Str("func", "*socialAuthService.verify").Msg("error caching social profile")
		}
	}

	return profile, nil
}

// profileTTL never lets a cached profile outlive the token it vouches for.
func (s *socialAuthService) profileTTL(profile models.SocialProfile) time.Duration {
	ttl := s.cacheTTL
	if !profile.ExpiresAt.IsZero() {
		if remaining := profile.ExpiresAt.Sub(s.now()); remaining < ttl {
			ttl = remaining
		}
	}
	return ttl
}

// findOrCreateUser resolves the Facebook identity to an account. On first
// login a user named fb_<id> is created; the provider email is attached
// only when no other account uses it.
func (s *socialAuthService) findOrCreateUser(ctx context.Context, profile models.SocialProfile) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepository.FindUserByFacebookID(ctx, profile.ExternalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNoUserWasFound) {
		log.Err(err).Str("facebook_id", profile.ExternalID).Msg("user search by facebook id failed")
		return models.User{}, fmt.Errorf("user search by facebook id failed: %w", err)
	}

	newUser := models.User{
		Username:   validators.ReservedUsernamePrefix + profile.ExternalID,
		Email:      utils.NormalizeEmail(profile.Email),
		FacebookID: profile.ExternalID,
		Role:       models.RoleUser,
	}

	user, err = s.userRepository.CreateUser(ctx, newUser)
	if errors.Is(err, store.ErrEmailAlreadyExists) {
		log.Info().Str("facebook_id", profile.ExternalID).Msg("provider email already taken, creating user without it")
		newUser.Email = ""
		user, err = s.userRepository.CreateUser(ctx, newUser)
	}
	if errors.Is(err, store.ErrFacebookIDAlreadyExists) {
		// concurrent first login of the same identity
		return s.userRepository.FindUserByFacebookID(ctx, profile.ExternalID)
	}
	if err != nil {
		log.Err(err).Str("facebook_id", profile.ExternalID).Msg("social user creation ended with error")
		return models.User{}, fmt.Errorf("social user creation ended with error: %w", err)
	}

	log.Info().Int64("user_id", user.UserID).Str("facebook_id", profile.ExternalID).Msg("social user created")

	return user, nil
}
