package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken returns the hex SHA-256 digest of a bearer secret. Secrets such
// as password reset tokens and provider access tokens are only ever stored
// or used as cache keys in this form.
func HashToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
