package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/MKhiriev/crowdblog-auth/internal/adapter"
	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
	"github.com/MKhiriev/crowdblog-auth/internal/validators"
	"github.com/MKhiriev/crowdblog-auth/models"
)

// passwordResetService implements the two-step reset: an emailed secret,
// then a new password exchanged for that secret.
type passwordResetService struct {
	userRepository  store.UserRepository
	resetRepository store.PasswordResetRepository
	mailer          adapter.Mailer
	validator       validators.Validator

	// ttl is how long an emailed link stays valid.
	ttl time.Duration

	// resetURL is the front-end page; the secret is added as ?token=.
	resetURL string

	newSecret func() (string, error)
	now       func() time.Time
	// dispatch runs the record-and-mail step once the account is known.
	dispatch func(ctx context.Context, job func(ctx context.Context))

	logger *logger.Logger
}

func NewPasswordResetService(
	userRepository store.UserRepository,
	resetRepository store.PasswordResetRepository,
	mailer adapter.Mailer,
	cfg config.App,
	logger *logger.Logger,
) PasswordResetService {
	return &passwordResetService{
		userRepository:  userRepository,
		resetRepository: resetRepository,
		mailer:          mailer,
		validator:       validators.NewCredentialsValidator(),
		ttl:             cfg.PasswordResetTTL,
		resetURL:        cfg.PasswordResetURL,
		newSecret:       utils.NewResetSecret,
		now:             time.Now,
		dispatch:        dispatchDetached,
		logger:          logger,
	}
}

// resetDeliveryTimeout bounds the background part of a reset request.
const resetDeliveryTimeout = 30 * time.Second

// dispatchDetached runs job on its own goroutine with a context that keeps
// the request values but not its cancellation.
func dispatchDetached(ctx context.Context, job func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resetDeliveryTimeout)
		defer cancel()

		job(ctx)
	}()
}

// RequestReset validates the address and looks the account up. For a known
// account the reset record and the mail are produced off the request path,
// so neither the response nor its timing tells whether an account exists.
// Only a validation or lookup failure is returned.
func (p *passwordResetService) RequestReset(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	email = utils.NormalizeEmail(email)
	if err := p.validator.Validate(ctx, models.PasswordResetRequest{Email: email}); err != nil {
		log.Error().Err(err).Msg("invalid password reset request")
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	user, err := p.userRepository.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNoUserWasFound) {
		log.Info().Msg("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		log.Err(err).Str("func", "*passwordResetService.RequestReset").Msg("user search by email failed")
		return fmt.Errorf("user search by email failed: %w", err)
	}

	p.dispatch(ctx, func(ctx context.Context) {
		if err := p.issueReset(ctx, user); err != nil {
			logger.FromContext(ctx).Err(err).
				Str("func", "*passwordResetService.RequestReset").
				Int64("user_id", user.UserID).
				Msg("password reset was not issued")
		}
	})

	return nil
}

// issueReset stores a fresh reset record for user and mails the link. A
// delivery failure is logged and not returned: the record stays valid and
// the user can ask again.
func (p *passwordResetService) issueReset(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	secret, err := p.newSecret()
	if err != nil {
		return fmt.Errorf("error generating reset secret: %w", err)
	}

	now := p.now().UTC()
	reset := models.PasswordReset{
		TokenHash: utils.HashToken(secret),
		UserID:    user.UserID,
		ExpiresAt: now.Add(p.ttl),
		CreatedAt: now,
	}
	if err := p.resetRepository.CreatePasswordReset(ctx, reset); err != nil {
		return fmt.Errorf("error storing password reset: %w", err)
	}

	if err := p.mailer.SendPasswordReset(ctx, user, p.resetLink(secret), reset.ExpiresAt); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("error sending password reset email")
		return nil
	}

	log.Info().Int64("user_id", user.UserID).Time("expires_at", reset.ExpiresAt).Msg("password reset issued")

	return nil
}

// ConfirmReset sets a new password for the owner of req.Token.
//
// Returns ErrInvalidResetToken for an unknown, used or expired secret, and
// ErrInvalidDataProvided when the new password is rejected.
func (p *passwordResetService) ConfirmReset(ctx context.Context, req models.PasswordResetConfirmRequest) error {
	log := logger.FromContext(ctx)

	if err := p.validator.Validate(ctx, req); err != nil {
		log.Error().Err(err).Msg("invalid password reset confirmation")
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	reset, err := p.resetRepository.FindPasswordReset(ctx, utils.HashToken(req.Token))
	if errors.Is(err, store.ErrPasswordResetNotFound) {
		log.Info().Msg("unknown password reset token")
		return ErrInvalidResetToken
	}
	if err != nil {
		log.Err(err).Str("func", "*passwordResetService.ConfirmReset").Msg("password reset search failed")
		return fmt.Errorf("password reset search failed: %w", err)
	}

	now := p.now().UTC()
	if !reset.IsUsable(now) {
		log.Info().Int64("user_id", reset.UserID).Bool("used", reset.UsedAt != nil).Msg("stale password reset token")
		return ErrInvalidResetToken
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Err(err).Str("func", "*passwordResetService.ConfirmReset").Msg("error hashing password")
		return fmt.Errorf("error hashing password: %w", err)
	}

	err = p.resetRepository.ConsumePasswordReset(ctx, reset, passwordHash, now)
	if errors.Is(err, store.ErrPasswordResetNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		log.Err(err).Int64("user_id", reset.UserID).Msg("error consuming password reset")
		return fmt.Errorf("error consuming password reset: %w", err)
	}

	log.Info().Int64("user_id", reset.UserID).Msg("password reset completed")

	return nil
}

func (p *passwordResetService) resetLink(secret string) string {
	u, err := url.Parse(p.resetURL)
	if err != nil {
		return p.resetURL + "?token=" + url.QueryEscape(secret)
	}

	q := u.Query()
	q.Set("token", secret)
	u.RawQuery = q.Encode()

	return u.String()
}
