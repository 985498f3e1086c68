package adapter

import "errors"

// Errors mapped from server HTTP status codes.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
)

// Identity provider and mailer errors.
var (
	ErrIdentityRejected    = errors.New("identity provider rejected the token")
	ErrIdentityUnavailable = errors.New("identity provider unavailable")
	ErrMailDelivery        = errors.New("mail delivery failed")
)
