package http

import (
	"net/http"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/models"
)

// requestPasswordReset handles POST /password-reset. It answers 202 for
// any well-formed email so the response does not reveal whether an
// account exists.
func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "*Handler.requestPasswordReset", err)
		return
	}

	if err := h.services.PasswordResetService.RequestReset(r.Context(), req.Email); err != nil {
		writeError(w, r, "*Handler.requestPasswordReset", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) confirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetConfirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "*Handler.confirmPasswordReset", err)
		return
	}

	if err := h.services.PasswordResetService.ConfirmReset(r.Context(), req); err != nil {
		writeError(w, r, "*Handler.confirmPasswordReset", err)
		return
	}

	logger.FromRequest(r).Info().Msg("password was reset")
	w.WriteHeader(http.StatusNoContent)
}
