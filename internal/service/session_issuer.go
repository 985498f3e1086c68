package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
	"github.com/MKhiriev/crowdblog-auth/models"
)

// maxSessionAttempts bounds the inserts tried for one login. Both a
// session id collision and a transient store failure use up an attempt.
const maxSessionAttempts = 3

// transientRetryDelay is the pause before the first retry after a
// transient store failure. Later retries wait proportionally longer.
const transientRetryDelay = 50 * time.Millisecond

// sessionIssuer records a session for an authenticated user and mints the
// token bound to it. Password and social login both finish here.
type sessionIssuer struct {
	sessionRepository store.SessionRepository
	tokenService      TokenService

	newSessionID func() (string, error)
	now          func() time.Time
	retryDelay   time.Duration
}

func newSessionIssuer(sessionRepository store.SessionRepository, tokenService TokenService) *sessionIssuer {
	return &sessionIssuer{
		sessionRepository: sessionRepository,
		tokenService:      tokenService,
		newSessionID:      utils.NewSessionID,
		now:               time.Now,
		retryDelay:        transientRetryDelay,
	}
}

func (i *sessionIssuer) start(ctx context.Context, user models.User, method models.AuthMethod) (models.SessionResult, error) {
	log := logger.FromContext(ctx)

	var (
		session models.Session
		err     error
	)
	for attempt := 0; attempt < maxSessionAttempts; attempt++ {
		var sessionID string
		sessionID, err = i.newSessionID()
		if err != nil {
			log.Err(err).Str("func", "*sessionIssuer.start").Msg("error generating session id")
			return models.SessionResult{}, fmt.Errorf("error generating session id: %w", err)
		}

		session, err = i.sessionRepository.CreateSession(ctx, models.Session{
			SessionID:  sessionID,
			UserID:     user.UserID,
			AuthMethod: method,
			CreatedAt:  i.now().UTC(),
		})
		if errors.Is(err, store.ErrSessionAlreadyExists) {
			log.Warn().Str("func", "*sessionIssuer.start").Int("attempt", attempt+1).Msg("session id collision")
			continue
		}
		if !errors.Is(err, store.ErrTransient) || attempt == maxSessionAttempts-1 {
			break
		}

		log.Warn().Err(err).Str("func", "*sessionIssuer.start").Int("attempt", attempt+1).Msg("retrying session creation")
		if waitErr := waitRetry(ctx, i.retryDelay*time.Duration(attempt+1)); waitErr != nil {
			err = fmt.Errorf("%w: %w", err, waitErr)
			break
		}
	}
	if err != nil {
		log.Err(err).Str("func", "*sessionIssuer.start").Int64("user_id", user.UserID).Msg("session creation ended with error")
		return models.SessionResult{}, fmt.Errorf("session creation ended with error: %w", err)
	}

	token, err := i.tokenService.Issue(ctx, user.UserID, session.SessionID)
	if err != nil {
		return models.SessionResult{}, err
	}

	log.Info().
		Int64("user_id", user.UserID).
		Str("session_id", session.SessionID).
		Str("auth_method", string(method)).
		Msg("session created")

	return models.SessionResult{Session: session, Token: token, User: user}, nil
}

// waitRetry sleeps for d unless ctx is done first.
func waitRetry(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
