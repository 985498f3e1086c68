// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "sync"

// ClientSession is the authentication state owned by the client shell.
// A single value is created by the client app and passed by pointer to
// every component that needs it. Safe for concurrent use.
type ClientSession struct {
	mu sync.RWMutex

	token     string
	sessionID string
	username  string
	method    AuthMethod
}

// Set stores the result of a successful login.
func (s *ClientSession) Set(token, sessionID, username string, method AuthMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.sessionID = sessionID
	s.username = username
	s.method = method
}

// Clear discards the token. This is what logging out means for the
// client; the server-side session row stays as an audit record.
func (s *ClientSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.sessionID = ""
	s.username = ""
	s.method = ""
}

// Token returns the bearer token, or "" when unauthenticated.
func (s *ClientSession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SessionID returns the server session id of the current login.
func (s *ClientSession) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// Username returns the logged-in username.
func (s *ClientSession) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Method returns how the current session was established.
func (s *ClientSession) Method() AuthMethod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.method
}

// IsAuthenticated reports whether a token is held.
func (s *ClientSession) IsAuthenticated() bool {
	return s.Token() != ""
}
