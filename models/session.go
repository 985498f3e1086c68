// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// AuthMethod records how a session was established.
type AuthMethod string

const (
	AuthMethodPassword AuthMethod = "password"
	AuthMethodFacebook AuthMethod = "facebook"
)

// Session is a server-recorded instance of a successful authentication.
// Rows are never updated after insertion and are kept as an audit trail;
// expiry is governed by the lifetime of the token minted alongside.
type Session struct {
	SessionID  string     `json:"session_id"`
	UserID     int64      `json:"user_id"`
	AuthMethod AuthMethod `json:"auth_method"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}

// SessionResult is what a successful authentication (password or social)
// produces: the stored session, the signed token and the user it belongs to.
type SessionResult struct {
	Session Session
	Token   Token
	User    User
}
