// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a signed JWT together with the typed claims it was minted
// from.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	// Excluded from JSON serialization because only the compact string form
	// is meaningful outside the server process.
	*jwt.Token `json:"-"`

	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// Claims is the typed view of the token payload.
	Claims Claims `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}

// Claims is the strongly typed payload of an access token. It is the only
// representation of a decoded token that leaves the token service.
type Claims struct {
	// UserID is the subject ("sub") of the token.
	UserID int64

	// SessionID is the "jti" claim; empty for tokens minted without a
	// session record.
	SessionID string

	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
