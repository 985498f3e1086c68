// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// PasswordReset is a pending password reset. Only the SHA-256 hash of the
// emailed secret is stored.
type PasswordReset struct {
	TokenHash string
	UserID    int64
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// IsUsable reports whether the reset can still be redeemed at now.
func (p PasswordReset) IsUsable(now time.Time) bool {
	return p.UsedAt == nil && now.Before(p.ExpiresAt)
}
