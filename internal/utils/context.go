// Package utils provides general-purpose helper utilities used across the
// application: typed context keys, JWT signing and parsing, password and
// secret generation, token hashing, JSON response writing and the HTTP
// client wrapper.
package utils

import (
	"context"

	"github.com/MKhiriev/crowdblog-auth/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey is the key used to store the authenticated user identifier in
// the context.
//
//	ctx := context.WithValue(ctx, utils.UserIDCtxKey, int64(42))
var UserIDCtxKey = contextKey("userID")

// ClaimsCtxKey is the key used to store the verified token claims in the
// context.
var ClaimsCtxKey = contextKey("claims")

// GetUserIDFromContext retrieves the user identifier from the context.
//
// Returns the user ID of type int64 and an ok flag:
//   - ok == true:  value is found and has the correct int64 type
//   - ok == false: value is missing or has an unexpected type
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

// GetClaimsFromContext retrieves the verified token claims placed in the
// context by the auth middleware.
func GetClaimsFromContext(ctx context.Context) (models.Claims, bool) {
	claims, ok := ctx.Value(ClaimsCtxKey).(models.Claims)
	return claims, ok
}

// WithPrincipal returns a copy of ctx carrying both the claims and the
// user id they identify.
func WithPrincipal(ctx context.Context, claims models.Claims) context.Context {
	ctx = context.WithValue(ctx, ClaimsCtxKey, claims)
	return context.WithValue(ctx, UserIDCtxKey, claims.UserID)
}
