// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/models"
)

func newTestAdapter(t *testing.T, serverURL string) *httpServerAdapter {
	t.Helper()
	a, err := NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: time.Second}, logger.Nop())
	require.NoError(t, err)
	return a.(*httpServerAdapter)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewHTTPServerAdapter_InvalidAddress(t *testing.T) {
	_, err := NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: "  "}, logger.Nop())
	assert.Error(t, err)

	a, err := NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: "localhost:8080/"}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", a.(*httpServerAdapter).client.BaseURL)
}

func TestCreateSession_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/session", r.URL.Path)

		var req models.CreateSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "pw", req.Password)

		w.Header().Set("Authorization", "Bearer tok")
		writeJSON(t, w, http.StatusOK, models.CreateSessionResponse{SessionID: "sid", Token: "tok", User: models.UserRef{Username: "alice"}})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.CreateSession(context.Background(), models.CreateSessionRequest{Username: "alice", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "sid", got.SessionID)
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, "alice", got.User.Username)
	assert.Empty(t, a.Token(), "adapter must not store the token by itself")
}

func TestCreateSession_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantErr error
	}{
		{name: "bad credentials", status: http.StatusUnauthorized, body: models.ErrorResponse{Error: "Invalid username or password"}, wantErr: ErrUnauthorized},
		{name: "bad request", status: http.StatusBadRequest, body: models.ErrorResponse{Error: "invalid data provided"}, wantErr: ErrBadRequest},
		{name: "rate limited", status: http.StatusTooManyRequests, body: models.ErrorResponse{Error: "too many requests"}, wantErr: ErrTooManyRequests},
		{name: "server error", status: http.StatusInternalServerError, body: models.ErrorResponse{Error: "internal server error"}, wantErr: ErrInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, tt.status, tt.body)
			}))
			defer srv.Close()

			_, err := newTestAdapter(t, srv.URL).CreateSession(context.Background(), models.CreateSessionRequest{Username: "a", Password: "b"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateSession_IncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"sessionId": "sid"})
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).CreateSession(context.Background(), models.CreateSessionRequest{Username: "a", Password: "b"})
	assert.Error(t, err)
}

func TestExchangeFacebookToken_SingleRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/auth/facebook", r.URL.Path)
		writeJSON(t, w, http.StatusBadGateway, models.ErrorResponse{Error: "social login failed"})
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).ExchangeFacebookToken(context.Background(), models.SocialTokenRequest{AccessToken: "fb"})
	assert.ErrorIs(t, err, ErrBadGateway)
	assert.ErrorContains(t, err, "social login failed")
	assert.Equal(t, int32(1), calls.Load())
}

func TestExchangeFacebookToken_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.SocialTokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "fb-token", req.AccessToken)
		writeJSON(t, w, http.StatusOK, models.SocialTokenResponse{AccessToken: "internal", SessionID: "sid"})
	}))
	defer srv.Close()

	got, err := newTestAdapter(t, srv.URL).ExchangeFacebookToken(context.Background(), models.SocialTokenRequest{AccessToken: "fb-token"})
	require.NoError(t, err)
	assert.Equal(t, "internal", got.AccessToken)
	assert.Equal(t, "sid", got.SessionID)
}

func TestAuthedRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(t, w, http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized"})
			return
		}
		switch r.URL.Path {
		case "/users/me":
			writeJSON(t, w, http.StatusOK, models.User{UserID: 1, Username: "alice"})
		case "/users/me/sessions":
			writeJSON(t, w, http.StatusOK, models.SessionsResponse{Sessions: []models.Session{{SessionID: "s1"}}, Length: 1})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)

	_, err := a.Me(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	a.SetToken(" tok ")
	assert.Equal(t, "tok", a.Token())

	me, err := a.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	sessions, err := a.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].SessionID)
}

func TestRegisterResetAndVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			writeJSON(t, w, http.StatusConflict, models.ErrorResponse{Error: "username already exists"})
		case "/password-reset":
			w.WriteHeader(http.StatusAccepted)
		case "/api/version":
			_, _ = w.Write([]byte("1.2.3\n"))
		}
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)

	_, err := a.Register(context.Background(), models.RegisterRequest{Username: "alice", Password: "password1"})
	assert.ErrorIs(t, err, ErrConflict)

	assert.NoError(t, a.RequestPasswordReset(context.Background(), models.PasswordResetRequest{Email: "a@b.c"}))

	v, err := a.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v)
}

func TestUnreachableServer(t *testing.T) {
	a := newTestAdapter(t, "http://127.0.0.1:1")

	_, err := a.CreateSession(context.Background(), models.CreateSessionRequest{Username: "a", Password: "b"})
	assert.ErrorContains(t, err, "create session request")
}
