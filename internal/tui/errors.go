// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/crowdblog-auth/internal/service"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
)

// ErrUserQuit is returned by [TUI.Run] when the user leaves with ctrl+c.
var ErrUserQuit = errors.New("user quit")

// humanizeError turns a client service error into a line fit for the
// screen.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, service.ErrUpstreamIdentity):
		return "Facebook rejected the token"
	case errors.Is(err, service.ErrTooManyAttempts):
		return "Too many attempts, try again in a minute"
	case errors.Is(err, store.ErrUsernameAlreadyExists):
		return "Username is already taken"
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return "Email is already registered"
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrNotLoggedIn):
		return "Session expired, log in again"
	case errors.Is(err, service.ErrInvalidDataProvided):
		return "Invalid data provided"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Network is down or the server is unavailable"
	}

	if errors.Is(err, service.ErrSocialLoginFailed) {
		return "Facebook login failed"
	}

	return err.Error()
}
