package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/service"
)

func TestIPRateLimiter_Allow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := newIPRateLimiter(3)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		require.True(t, rl.allow("10.0.0.1"), "request %d within burst", i+1)
	}
	assert.False(t, rl.allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.allow("10.0.0.2"), "other clients keep their own bucket")

	now = now.Add(20 * time.Second)
	assert.True(t, rl.allow("10.0.0.1"), "one token refilled after a third of a minute")
	assert.False(t, rl.allow("10.0.0.1"))
}

func TestIPRateLimiter_Disabled(t *testing.T) {
	assert.Nil(t, newIPRateLimiter(0))
	assert.Nil(t, newIPRateLimiter(-5))
}

func TestIPRateLimiter_SweepsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := newIPRateLimiter(5)
	rl.now = func() time.Time { return now }

	for i := 0; i < visitorGCThreshold; i++ {
		rl.visitors[string(rune(i))] = &visitor{lastSeen: now.Add(-time.Hour)}
	}
	rl.visitors["fresh"] = &visitor{lastSeen: now}

	rl.allow("10.0.0.9")

	assert.Len(t, rl.visitors, 2)
	assert.Contains(t, rl.visitors, "fresh")
	assert.Contains(t, rl.visitors, "10.0.0.9")
}

func TestWithRateLimit(t *testing.T) {
	h := &Handler{logger: logger.Nop(), limiter: newIPRateLimiter(2)}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	middleware := h.withRateLimit(next)

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := injectNopLogger(httptest.NewRequest(http.MethodPost, "/session", nil))
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1:5000").Code)
	assert.Equal(t, http.StatusOK, send("192.0.2.1:5001").Code, "port is not part of the key")

	rr := send("192.0.2.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "too many requests", errorBody(t, rr))
	assert.Equal(t, "31", rr.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("192.0.2.2:5000").Code)
}

func TestWithRateLimit_ThroughRouter(t *testing.T) {
	cfg := testServerConfig()
	cfg.AuthRateLimit = 1
	cfg.TrustedProxies = []string{"192.0.2.1"}
	h, _ := newMockedHandler(t, cfg)
	router := h.Init()

	headers := map[string]string{"X-Forwarded-For": "203.0.113.7"}
	first := serve(router, http.MethodPost, "/session", "not json", headers)
	second := serve(router, http.MethodPost, "/users", "not json", headers)
	other := serve(router, http.MethodPost, "/session", "not json", map[string]string{"X-Forwarded-For": "203.0.113.8"})

	assert.Equal(t, http.StatusBadRequest, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code, "credential endpoints share the client bucket")
	assert.Equal(t, http.StatusBadRequest, other.Code, "a trusted proxy forwards distinct clients")

	// version and protected routes are not throttled
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/users/me", "", headers).Code)
}

func TestWithRateLimit_IgnoresSpoofedForwardedHeaders(t *testing.T) {
	cfg := testServerConfig()
	cfg.AuthRateLimit = 2
	h, _ := newMockedHandler(t, cfg)
	router := h.Init()

	var limited int
	for i := 0; i < 50; i++ {
		headers := map[string]string{
			"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i),
			"X-Real-IP":       fmt.Sprintf("198.51.100.%d", i),
		}
		rr := serve(router, http.MethodPost, "/session", "not json", headers)
		if i < 2 {
			assert.Equal(t, http.StatusBadRequest, rr.Code, "request %d is within the burst", i+1)
			continue
		}
		if rr.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 48, limited, "rotating forwarded headers from one socket must not refill the bucket")
}

func TestHandler_ClientIP(t *testing.T) {
	h := NewHandler(&service.Services{}, config.Server{TrustedProxies: []string{"10.0.0.0/8", "192.0.2.1"}}, logger.Nop())

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{name: "direct peer", remoteAddr: "198.51.100.4:4000", want: "198.51.100.4"},
		{
			name:       "untrusted peer with forwarded for",
			remoteAddr: "198.51.100.4:4000",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:       "198.51.100.4",
		},
		{
			name:       "untrusted peer with real ip",
			remoteAddr: "198.51.100.4:4000",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "198.51.100.4",
		},
		{
			name:       "trusted proxy",
			remoteAddr: "192.0.2.1:4000",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "client spoofs the leftmost hop",
			remoteAddr: "192.0.2.1:4000",
			headers:    map[string]string{"X-Forwarded-For": "1.1.1.1, 203.0.113.9, 10.1.1.1"},
			want:       "203.0.113.9",
		},
		{
			name:       "whole chain is trusted",
			remoteAddr: "192.0.2.1:4000",
			headers:    map[string]string{"X-Forwarded-For": "10.2.2.2, 10.1.1.1"},
			want:       "10.2.2.2",
		},
		{
			name:       "garbled hop",
			remoteAddr: "192.0.2.1:4000",
			headers:    map[string]string{"X-Forwarded-For": "nonsense, 10.1.1.1"},
			want:       "10.1.1.1",
		},
		{
			name:       "trusted proxy with real ip",
			remoteAddr: "10.3.3.3:4000",
			headers:    map[string]string{"X-Real-IP": "203.0.113.10"},
			want:       "203.0.113.10",
		},
		{
			name:       "trusted proxy without headers",
			remoteAddr: "10.3.3.3:4000",
			want:       "10.3.3.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/session", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, h.clientIP(req))
		})
	}
}
