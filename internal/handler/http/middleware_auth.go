package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/crowdblog-auth/internal/app"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
)

// auth is an HTTP middleware that gates protected routes behind a bearer
// token.
//
// A request passes through the following checks, in order:
//   - the "Authorization" header is present;
//   - it holds the "Bearer" scheme (any case) and a non-empty token;
//   - the token verifies via [service.TokenService.Verify];
//   - the token subject is an existing user.
//
// Any failed check answers 401 with the body {"error":"unauthorized"}; the
// actual reason is only logged. A storage failure while resolving the user
// answers 500. On success the claims and the user ID are stored in the
// request context with [utils.WithPrincipal].
//
// The middleware never writes to the session or user records.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, r, ErrEmptyAuthorizationHeader)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			unauthorized(w, r, fmt.Errorf("%w: %w", ErrInvalidAuthorizationHeader, err))
			return
		}

		claims, err := h.services.TokenService.Verify(ctx, tokenString)
		if err != nil {
			unauthorized(w, r, err)
			return
		}

		if _, err = h.services.UserService.GetUser(ctx, claims.UserID); err != nil {
			if errors.Is(err, store.ErrNoUserWasFound) {
				unauthorized(w, r, fmt.Errorf("%w: %w", ErrUnknownSubject, err))
				return
			}

			log.Err(err).Str("func", "*Handler.auth").Int64("user_id", claims.UserID).Msg("error resolving token subject")
			utils.WriteError(w, app.MsgInternalServerError, http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithPrincipal(ctx, claims)))
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request, reason error) {
	logger.FromRequest(r).Warn().Err(reason).Str("func", "*Handler.auth").Msg("request is not authenticated")
	utils.WriteError(w, app.MsgUnauthorized, http.StatusUnauthorized)
}
