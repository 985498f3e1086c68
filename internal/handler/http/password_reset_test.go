package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/crowdblog-auth/internal/service"
	"github.com/MKhiriev/crowdblog-auth/models"
)

func TestRequestPasswordReset(t *testing.T) {
	h, m := newMockedHandler(t, testServerConfig())
	router := h.Init()

	// the service hides unknown emails, so both answers are 202
	m.resets.EXPECT().RequestReset(gomock.Any(), "alice@example.com").Return(nil)
	m.resets.EXPECT().RequestReset(gomock.Any(), "nobody@example.com").Return(nil)

	known := serve(router, http.MethodPost, "/password-reset", `{"email":"alice@example.com"}`, nil)
	unknown := serve(router, http.MethodPost, "/password-reset", `{"email":"nobody@example.com"}`, nil)

	assert.Equal(t, http.StatusAccepted, known.Code)
	assert.Equal(t, http.StatusAccepted, unknown.Code)
	assert.Empty(t, known.Body.String())
	assert.Equal(t, known.Body.String(), unknown.Body.String())

	m.resets.EXPECT().RequestReset(gomock.Any(), "broken").Return(service.ErrInvalidDataProvided)
	bad := serve(router, http.MethodPost, "/password-reset", `{"email":"broken"}`, nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestConfirmPasswordReset(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantBody   string
	}{
		{name: "success", wantStatus: http.StatusNoContent},
		{name: "short password", serviceErr: service.ErrInvalidDataProvided, wantStatus: http.StatusBadRequest, wantBody: "invalid data provided"},
		{name: "used or expired token", serviceErr: service.ErrInvalidResetToken, wantStatus: http.StatusBadRequest, wantBody: "invalid or expired reset token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newMockedHandler(t, testServerConfig())
			m.resets.EXPECT().
				ConfirmReset(gomock.Any(), models.PasswordResetConfirmRequest{Token: "secret", Password: "new-password"}).
				Return(tt.serviceErr)

			rec := serve(h.Init(), http.MethodPost, "/password-reset/confirm", `{"token":"secret","password":"new-password"}`, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, errorBody(t, rec))
			}
		})
	}
}
