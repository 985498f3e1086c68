package utils

import "strings"

// NormalizeEmail returns the canonical stored form of an email address:
// trimmed and lowercased. Addresses are compared in this form everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
