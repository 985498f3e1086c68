package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
	"github.com/MKhiriev/crowdblog-auth/models"
)

// createSession handles POST /session: password login.
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.CreateSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "*Handler.createSession", err)
		return
	}

	result, err := h.services.AuthService.CreateSession(ctx, req)
	if err != nil {
		writeError(w, r, "*Handler.createSession", err)
		return
	}

	log.Debug().
		Int64("user_id", result.User.UserID).
		Str("session_id", result.Session.SessionID).
		Msg("session created")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", result.Token.SignedString))
	resp := models.CreateSessionResponse{
		SessionID: result.Session.SessionID,
		Token:     result.Token.SignedString,
		User:      models.UserRef{Username: result.User.Username},
	}
	if _, err = utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.createSession").Msg("error writing response")
	}
}
