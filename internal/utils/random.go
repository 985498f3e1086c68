// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const (
	sessionIDBytes   = 18
	resetSecretBytes = 32
)

// NewSessionID returns a 24 character URL-safe session identifier drawn from
// crypto/rand. It is safe for concurrent use.
func NewSessionID() (string, error) {
	return randomString(sessionIDBytes)
}

// NewResetSecret returns the secret mailed in a password reset link.
func NewResetSecret() (string, error) {
	return randomString(resetSecretBytes)
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error reading random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
