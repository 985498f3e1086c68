package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/crowdblog-auth/internal/app"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/service"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
)

// errorResponse is the status and body returned for a business error.
type errorResponse struct {
	status  int
	message string
}

// errorStatusMap is checked in order: an error wrapping several sentinels
// gets the response of the first one listed.
var errorStatusMap = []struct {
	target   error
	response errorResponse
}{
	{service.ErrInvalidResetToken, errorResponse{http.StatusBadRequest, app.MsgInvalidResetToken}},
	{service.ErrInvalidDataProvided, errorResponse{http.StatusBadRequest, app.MsgInvalidDataProvided}},
	{ErrInvalidJSON, errorResponse{http.StatusBadRequest, app.MsgInvalidDataProvided}},

	{service.ErrInvalidCredentials, errorResponse{http.StatusUnauthorized, app.MsgInvalidCredentials}},
	{service.ErrUnauthenticated, errorResponse{http.StatusUnauthorized, app.MsgUnauthorized}},
	{service.ErrInvalidToken, errorResponse{http.StatusUnauthorized, app.MsgUnauthorized}},
	{service.ErrExpiredToken, errorResponse{http.StatusUnauthorized, app.MsgUnauthorized}},
	{ErrNoPrincipal, errorResponse{http.StatusUnauthorized, app.MsgUnauthorized}},

	{service.ErrUpstreamIdentity, errorResponse{http.StatusBadGateway, app.MsgSocialLoginFailed}},

	{store.ErrUsernameAlreadyExists, errorResponse{http.StatusConflict, app.MsgUsernameAlreadyExists}},
	{store.ErrEmailAlreadyExists, errorResponse{http.StatusConflict, app.MsgEmailAlreadyExists}},
	{store.ErrNoUserWasFound, errorResponse{http.StatusNotFound, app.MsgNotFound}},

	{store.ErrStorage, errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}},
}

func responseFromError(err error) errorResponse {
	for _, entry := range errorStatusMap {
		if errors.Is(err, entry.target) {
			return entry.response
		}
	}
	return errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}
}

func statusFromError(err error) int {
	return responseFromError(err).status
}

// writeError logs err with the request logger and answers with the generic
// body mapped from it. Server-side failures are logged at error level,
// client mistakes at warn.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	log := logger.FromRequest(r)
	resp := responseFromError(err)

	if resp.status >= http.StatusInternalServerError {
		log.Err(err).Str("func", funcName).Int("status", resp.status).Msg("request failed")
	} else {
		log.Warn().Err(err).Str("func", funcName).Int("status", resp.status).Msg("request rejected")
	}

	utils.WriteError(w, resp.message, resp.status)
}
