package store

import (
	"errors"
	"fmt"
)

// ErrStorage marks every failure of the storage backend itself, as opposed
// to a domain outcome such as "not found" or "already exists".
var ErrStorage = errors.New("storage error")

// Domain outcomes.
var (
	ErrUsernameAlreadyExists = errors.New("username already exists")

	ErrEmailAlreadyExists = errors.New("email already exists")

	ErrFacebookIDAlreadyExists = errors.New("facebook account already linked")

	ErrNoUserWasFound = errors.New("no user was found")

	ErrSessionAlreadyExists = errors.New("session id already exists")

	ErrPasswordResetNotFound = errors.New("password reset was not found")

	ErrCacheMiss = errors.New("cache miss")
)

// Storage failure kinds, always wrapped together with ErrStorage.
var (
	ErrBuildingSQLQuery = errors.New("error building sql query")

	ErrExecutingQuery = errors.New("error executing sql query")

	ErrBeginningTransaction = errors.New("failed to begin transaction")

	ErrCommitingTransaction = errors.New("failed to commit transaction")

	ErrScanningRow = errors.New("failed to scan row")

	ErrScanningRows = errors.New("failed to scan rows")

	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrTransient marks a failure the classifier reports as Retryable,
	// such as a busy SQLite file or a Postgres serialization failure.
	ErrTransient = errors.New("transient storage failure")
)

// storageError wraps err so that callers can match both ErrStorage and kind.
func storageError(kind, err error) error {
	return fmt.Errorf("%w: %w: %w", ErrStorage, kind, err)
}
