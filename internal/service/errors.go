package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidCredentials  = errors.New("invalid username or password")

	// ErrUnauthenticated covers every way a bearer token can fail to admit
	// a request. ErrInvalidToken and ErrExpiredToken are its refinements.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidToken    = errors.New("token is invalid")
	ErrExpiredToken    = errors.New("token is expired")

	ErrTokenCreationFailed   = errors.New("token creation failed")
	ErrInvalidTokenConfig    = errors.New("token sign key and duration must be set")
	ErrVersionIsNotSpecified = errors.New("version is not specified")

	ErrUpstreamIdentity  = errors.New("identity provider verification failed")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// Client-side errors.
var (
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrLoginOnServer     = errors.New("login on server failed")
	ErrRegisterOnServer  = errors.New("registration on server failed")
	ErrSocialLoginFailed = errors.New("social login failed")
	ErrTooManyAttempts   = errors.New("too many attempts, try again later")
)
