// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. They are only logged; the client always
// receives the generic unauthorized body.
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header does not hold exactly a "Bearer" scheme and a non-empty token.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrUnknownSubject is returned when a valid token names a user that no
	// longer exists.
	ErrUnknownSubject = errors.New("token subject does not exist")
)

var (
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrNoPrincipal means a protected handler ran without the auth
	// middleware in front of it.
	ErrNoPrincipal = errors.New("no authenticated user in request context")
)
