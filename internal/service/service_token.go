package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
	"github.com/MKhiriev/crowdblog-auth/models"
)

// tokenService is the concrete implementation of TokenService.
// It signs HS256 tokens with a key read once at startup.
type tokenService struct {
	// signKey is the HMAC secret used to sign and verify tokens.
	signKey string

	// issuer is the "iss" claim embedded in every issued token.
	// Tokens whose issuer does not match this value are rejected.
	issuer string

	// duration controls how long a newly issued token remains valid.
	duration time.Duration

	// now is the clock used both for "iat" and for expiry checks.
	now func() time.Time

	logger *logger.Logger
}

// NewTokenService constructs a TokenService from cfg.
//
// Returns ErrInvalidTokenConfig when the sign key is empty or the duration
// is not positive.
func NewTokenService(cfg config.App, logger *logger.Logger) (TokenService, error) {
	return newTokenService(cfg, time.Now, logger)
}

func newTokenService(cfg config.App, now func() time.Time, logger *logger.Logger) (*tokenService, error) {
	if cfg.TokenSignKey == "" || cfg.TokenDuration <= 0 {
		return nil, ErrInvalidTokenConfig
	}

	return &tokenService{
		signKey:  cfg.TokenSignKey,
		issuer:   cfg.TokenIssuer,
		duration: cfg.TokenDuration,
		now:      now,
		logger:   logger,
	}, nil
}

// Issue mints a token for userID valid for the configured duration.
// For a fixed key and clock the result is deterministic.
func (s *tokenService) Issue(ctx context.Context, userID int64, sessionID string) (models.Token, error) {
	token, err := utils.GenerateJWTToken(utils.TokenParams{
		Issuer:    s.issuer,
		UserID:    userID,
		SessionID: sessionID,
		IssuedAt:  s.now(),
		Duration:  s.duration,
		SignKey:   s.signKey,
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*tokenService.Issue").Int64("user_id", userID).Msg("error signing token")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// Verify checks the signature, algorithm, issuer and expiry of tokenString
// and returns its typed claims.
//
// The detailed jwt error is kept in the chain for logging; callers match
// on ErrInvalidToken and ErrExpiredToken.
func (s *tokenService) Verify(ctx context.Context, tokenString string) (models.Claims, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, s.signKey, s.issuer, s.now)
	if err == nil {
		return token.Claims, nil
	}

	if errors.Is(err, jwt.ErrTokenExpired) && s.validBeforeExpiry(tokenString) {
		return models.Claims{}, fmt.Errorf("%w: %w", ErrExpiredToken, err)
	}

	return models.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
}

// validBeforeExpiry replays the validation one second before the token's
// own expiry. The claim validator reports every failed claim at once, so
// this is what separates "only expired" from "expired and forged".
func (s *tokenService) validBeforeExpiry(tokenString string) bool {
	claims, err := utils.ParseUnverifiedClaims(tokenString)
	if err != nil || claims.ExpiresAt.IsZero() {
		return false
	}

	justBefore := claims.ExpiresAt.Add(-time.Second)
	_, err = utils.ValidateAndParseJWTToken(tokenString, s.signKey, s.issuer, func() time.Time { return justBefore })

	return err == nil
}
