package http

import (
	"net/http"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
	"github.com/MKhiriev/crowdblog-auth/models"
)

// facebookLogin handles POST /auth/facebook: exchanges a Facebook access
// token for an application token.
func (h *Handler) facebookLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.SocialTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "*Handler.facebookLogin", err)
		return
	}

	result, err := h.services.SocialAuthService.ExchangeFacebookToken(ctx, req.AccessToken)
	if err != nil {
		writeError(w, r, "*Handler.facebookLogin", err)
		return
	}

	log.Debug().
		Int64("user_id", result.User.UserID).
		Str("session_id", result.Session.SessionID).
		Msg("facebook session created")

	resp := models.SocialTokenResponse{
		AccessToken: result.Token.SignedString,
		SessionID:   result.Session.SessionID,
	}
	if _, err = utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.facebookLogin").Msg("error writing response")
	}
}
