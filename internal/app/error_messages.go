// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the response messages shared by the server handlers
// and the client error mapper.
//
// Every non-2xx JSON body is {"error": <Msg*>}. The messages are generic on
// purpose; the cause of a failure is only written to the server log. The
// client compares the body with these constants to recover the business
// error behind a status code.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidCredentials is returned by POST /session for an unknown
	// user and for a wrong password alike.
	MsgInvalidCredentials = "Invalid username or password"

	// MsgUnauthorized is the only body the auth middleware ever writes.
	MsgUnauthorized = "unauthorized"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgSocialLoginFailed is returned when the identity provider rejected
	// the access token or could not be reached.
	MsgSocialLoginFailed = "social login failed"

	// MsgInvalidResetToken is returned for an unknown, used or expired
	// password reset token.
	MsgInvalidResetToken = "invalid or expired reset token"

	MsgUsernameAlreadyExists = "username already exists"
	MsgEmailAlreadyExists    = "email already exists"

	// MsgTooManyRequests is returned by the credential endpoint rate limiter.
	MsgTooManyRequests = "too many requests"

	MsgNotFound = "not found"
)
