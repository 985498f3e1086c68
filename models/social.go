// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SocialProfile is the identity an external provider vouched for after a
// successful access-token verification.
type SocialProfile struct {
	// Provider names the identity provider, e.g. "facebook".
	Provider string `json:"provider"`

	// ExternalID is the provider-scoped user identifier.
	ExternalID string `json:"external_id"`

	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`

	// ExpiresAt is when the provider access token stops being valid.
	// Zero when the provider did not report an expiry.
	ExpiresAt time.Time `json:"expires_at"`
}
