package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/mock"
	"github.com/MKhiriev/crowdblog-auth/internal/service"
	"github.com/MKhiriev/crowdblog-auth/models"
)

// serviceMocks holds the gomock doubles behind a test Handler.
type serviceMocks struct {
	tokens  *mock.MockTokenService
	auth    *mock.MockAuthService
	social  *mock.MockSocialAuthService
	users   *mock.MockUserService
	resets  *mock.MockPasswordResetService
	appInfo *mock.MockAppInfoService
}

func testServerConfig() config.Server {
	return config.Server{
		HTTPAddress:    "localhost:0",
		RequestTimeout: 5 * time.Second,
		AllowedOrigins: []string{"http://localhost:3000"},
		AuthRateLimit:  1000,
	}
}

func newMockedHandler(t *testing.T, cfg config.Server) (*Handler, serviceMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := serviceMocks{
		tokens:  mock.NewMockTokenService(ctrl),
		auth:    mock.NewMockAuthService(ctrl),
		social:  mock.NewMockSocialAuthService(ctrl),
		users:   mock.NewMockUserService(ctrl),
		resets:  mock.NewMockPasswordResetService(ctrl),
		appInfo: mock.NewMockAppInfoService(ctrl),
	}

	svcs := &service.Services{
		TokenService:         m.tokens,
		AuthService:          m.auth,
		SocialAuthService:    m.social,
		UserService:          m.users,
		PasswordResetService: m.resets,
		AppInfoService:       m.appInfo,
	}

	return NewHandler(svcs, cfg, logger.Nop()), m
}

// serve sends a request through the full router.
func serve(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp.Error
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
