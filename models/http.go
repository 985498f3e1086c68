// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// CreateSessionRequest is the body of POST /session.
type CreateSessionRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateSessionResponse is returned by POST /session on success.
type CreateSessionResponse struct {
	SessionID string  `json:"sessionId"`
	Token     string  `json:"token"`
	User      UserRef `json:"user"`
}

// SocialTokenRequest is the body of POST /auth/facebook.
type SocialTokenRequest struct {
	AccessToken string `json:"accessToken"`
}

// SocialTokenResponse is returned by POST /auth/facebook on success.
type SocialTokenResponse struct {
	AccessToken string `json:"access_token"`
	SessionID   string `json:"sessionId"`
}

// RegisterRequest is the body of POST /users.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// RegisterResponse is returned by POST /users on success.
type RegisterResponse struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
}

// PasswordResetRequest is the body of POST /password-reset.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest is the body of POST /password-reset/confirm.
type PasswordResetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// SessionsResponse lists the caller's sessions.
type SessionsResponse struct {
	Sessions []Session `json:"sessions"`
	Length   int       `json:"length"`
}

// ErrorResponse is the body of every non-2xx JSON response. Message is
// always generic; details stay in server logs.
type ErrorResponse struct {
	Error string `json:"error"`
}
