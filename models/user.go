// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Roles assignable to a [User]. Role changes are an administrative
// operation and are never accepted from profile-edit requests.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the single canonical account record shared by the credential
// store, the services and the HTTP layer.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user. Immutable.
	UserID int64 `json:"id"`

	// Username is the unique login name.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password. It is empty
	// for accounts created through social login only.
	PasswordHash string `json:"-"`

	Email           string `json:"email,omitempty"`
	Bio             string `json:"bio,omitempty"`
	FacebookHandle  string `json:"facebook_handle,omitempty"`
	TwitterHandle   string `json:"twitter_handle,omitempty"`
	InstagramHandle string `json:"instagram_handle,omitempty"`
	Role            string `json:"role,omitempty"`
	AvatarURL       string `json:"avatar_url,omitempty"`

	// FacebookID links the account to a Facebook identity. Internal only.
	FacebookID string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// HasPassword reports whether the account can authenticate with a password.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

// UserRef is the minimal user projection returned next to a freshly created
// session. It never carries anything but the username.
type UserRef struct {
	Username string `json:"username"`
}

// Ref returns the minimal [UserRef] projection of u.
func (u User) Ref() UserRef {
	return UserRef{Username: u.Username}
}

// ProfileUpdate describes a partial profile edit. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	UserID int64 `json:"-"`

	Email           *string `json:"email,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	FacebookHandle  *string `json:"facebook_handle,omitempty"`
	TwitterHandle   *string `json:"twitter_handle,omitempty"`
	InstagramHandle *string `json:"instagram_handle,omitempty"`
	AvatarURL       *string `json:"avatar_url,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Email == nil &&
		p.Bio == nil &&
		p.FacebookHandle == nil &&
		p.TwitterHandle == nil &&
		p.InstagramHandle == nil &&
		p.AvatarURL == nil
}
