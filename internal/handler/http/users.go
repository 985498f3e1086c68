package http

import (
	"net/http"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
	"github.com/MKhiriev/crowdblog-auth/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "*Handler.register", err)
		return
	}

	user, err := h.services.AuthService.RegisterUser(ctx, req)
	if err != nil {
		writeError(w, r, "*Handler.register", err)
		return
	}

	log.Info().Int64("user_id", user.UserID).Msg("user registered")

	resp := models.RegisterResponse{UserID: user.UserID, Username: user.Username}
	if _, err = utils.WriteJSON(w, resp, http.StatusCreated); err != nil {
		log.Err(err).Str("func", "*Handler.register").Msg("error writing response")
	}
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		writeError(w, r, "*Handler.me", ErrNoPrincipal)
		return
	}

	user, err := h.services.UserService.GetUser(ctx, userID)
	if err != nil {
		writeError(w, r, "*Handler.me", err)
		return
	}

	if _, err = utils.WriteJSON(w, user, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.me").Msg("error writing response")
	}
}

// updateMe handles PATCH /users/me. Fields absent from the body are left
// unchanged; the role cannot be set here.
func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		writeError(w, r, "*Handler.updateMe", ErrNoPrincipal)
		return
	}

	var update models.ProfileUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, r, "*Handler.updateMe", err)
		return
	}
	update.UserID = userID

	user, err := h.services.UserService.UpdateProfile(ctx, update)
	if err != nil {
		writeError(w, r, "*Handler.updateMe", err)
		return
	}

	if _, err = utils.WriteJSON(w, user, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.updateMe").Msg("error writing response")
	}
}

func (h *Handler) mySessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		writeError(w, r, "*Handler.mySessions", ErrNoPrincipal)
		return
	}

	sessions, err := h.services.UserService.ListSessions(ctx, userID)
	if err != nil {
		writeError(w, r, "*Handler.mySessions", err)
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	resp := models.SessionsResponse{Sessions: sessions, Length: len(sessions)}
	if _, err = utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.mySessions").Msg("error writing response")
	}
}
