package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyPasswordHash is compared against when the username is unknown, so a
// failed login costs the same whether or not the user exists.
var dummyPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("crowdblog-dummy-password"), bcrypt.DefaultCost)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	return string(hash), nil
}

// CheckPassword reports whether password matches hash. An empty hash never
// matches but still spends a full bcrypt comparison.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
