package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/service"
)

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()
	cfg := testServerConfig()

	h := NewHandler(svc, cfg, log)

	require.NotNil(t, h)
	assert.Same(t, svc, h.services)
	assert.Same(t, log, h.logger)
	assert.Equal(t, cfg, h.cfg)
	require.NotNil(t, h.limiter)
	assert.Equal(t, cfg.AuthRateLimit, h.limiter.perMinute)
}

func TestNewHandler_TrustedProxies(t *testing.T) {
	cfg := testServerConfig()
	cfg.TrustedProxies = []string{"10.0.0.0/8"}
	h := NewHandler(&service.Services{}, cfg, logger.Nop())
	require.Len(t, h.trustedProxies, 1)
	assert.Equal(t, "10.0.0.0/8", h.trustedProxies[0].String())

	cfg.TrustedProxies = []string{"not-an-ip"}
	assert.Empty(t, NewHandler(&service.Services{}, cfg, logger.Nop()).trustedProxies)
}

func TestNewHandler_RateLimitDisabled(t *testing.T) {
	h := NewHandler(&service.Services{}, config.Server{}, logger.Nop())

	assert.Nil(t, h.limiter)
}

// ─────────────────────────────────────────────
// Init: route registration
// ─────────────────────────────────────────────

func newTestHandlerWithAppInfoService(t *testing.T) *Handler {
	t.Helper()
	return newHandlerWithAppInfo(t, &mockAppInfoService{version: "test-version"})
}

// expectedRoutes lists every route that Init() must register. Without a
// body or a token none of them reaches a service.
var expectedRoutes = []struct {
	method     string
	path       string
	wantStatus int
}{
	{http.MethodGet, "/api/version", http.StatusOK},
	{http.MethodPost, "/session", http.StatusBadRequest},
	{http.MethodPost, "/auth/facebook", http.StatusBadRequest},
	{http.MethodPost, "/users", http.StatusBadRequest},
	{http.MethodPost, "/password-reset", http.StatusBadRequest},
	{http.MethodPost, "/password-reset/confirm", http.StatusBadRequest},
	{http.MethodGet, "/users/me", http.StatusUnauthorized},
	{http.MethodPatch, "/users/me", http.StatusUnauthorized},
	{http.MethodGet, "/users/me/sessions", http.StatusUnauthorized},
}

func TestInit_RegistersAllRoutes(t *testing.T) {
	router := newTestHandlerWithAppInfoService(t).Init()

	for _, tc := range expectedRoutes {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := serve(router, tc.method, tc.path, "", nil)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestInit_UnknownRouteReturns404(t *testing.T) {
	router := newTestHandlerWithAppInfoService(t).Init()

	rec := serve(router, http.MethodGet, "/api/nonexistent", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", errorBody(t, rec))
}

func TestInit_WrongMethodReturns405(t *testing.T) {
	router := newTestHandlerWithAppInfoService(t).Init()

	rec := serve(router, http.MethodDelete, "/users/me", "", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, PATCH", rec.Header().Get("Allow"))
}

func TestInit_CORSPreflight(t *testing.T) {
	router := newTestHandlerWithAppInfoService(t).Init()

	t.Run("allowed origin", func(t *testing.T) {
		rec := serve(router, http.MethodOptions, "/session", "", map[string]string{
			"Origin":                         "http://localhost:3000",
			"Access-Control-Request-Method":  http.MethodPost,
			"Access-Control-Request-Headers": "Content-Type",
		})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		rec := serve(router, http.MethodOptions, "/session", "", map[string]string{
			"Origin":                        "https://evil.example.com",
			"Access-Control-Request-Method": http.MethodPost,
		})

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request exposes trace id", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/api/version", "", map[string]string{"Origin": "http://localhost:3000"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, strings.ToLower(rec.Header().Get("Access-Control-Expose-Headers")), "x-trace-id")
	})
}

func TestInit_RecoversPanics(t *testing.T) {
	h := newHandlerWithAppInfo(t, nil)
	router := h.Init()

	// a nil AppInfoService makes the version handler panic
	rec := serve(router, http.MethodGet, "/api/version", "", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
