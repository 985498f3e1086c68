package validators

import (
	"context"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/MKhiriev/crowdblog-auth/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldUsername requires a non-empty username.
	FieldUsername = "username"

	// FieldUsernameFormat enforces the registration rules for usernames.
	FieldUsernameFormat = "username format"

	// FieldPassword requires a non-empty password.
	FieldPassword = "password"

	// FieldPasswordStrength enforces the length limits of a new password.
	FieldPasswordStrength = "password strength"

	// FieldEmail validates an email address. Empty is accepted where the
	// address is optional.
	FieldEmail = "email"

	// FieldAccessToken requires a non-empty third-party access token.
	FieldAccessToken = "access_token"

	// FieldResetToken requires a non-empty password reset secret.
	FieldResetToken = "reset_token"

	FieldUserID    = "user_id"
	FieldProfile   = "profile"
	FieldAvatarURL = "avatar_url"
)

const (
	// MinPasswordLength is the shortest password accepted at registration
	// and password reset.
	MinPasswordLength = 8

	// MaxPasswordLength is the bcrypt input limit.
	MaxPasswordLength = 72

	// ReservedUsernamePrefix is used for accounts created by social login.
	ReservedUsernamePrefix = "fb_"

	maxBioLength    = 1000
	maxHandleLength = 64
	maxURLLength    = 2048
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,32}$`)

// CredentialsValidator implements Validator for every inbound payload of
// the auth service: session and registration requests, social token
// exchanges, password resets and profile updates.
//
// Both value and pointer forms of each model are accepted.
type CredentialsValidator struct {
}

// NewCredentialsValidator constructs a CredentialsValidator and returns it
// as the Validator interface.
func NewCredentialsValidator() Validator {
	return &CredentialsValidator{}
}

// Validate dispatches validation to the type-specific method. When fields
// is empty the type's default field set is checked. It returns
// ErrUnsupportedType for any other type.
func (v *CredentialsValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CreateSessionRequest:
		return v.validateSessionRequest(value, fields...)
	case *models.CreateSessionRequest:
		return v.validateSessionRequest(*value, fields...)

	case models.RegisterRequest:
		return v.validateRegisterRequest(value, fields...)
	case *models.RegisterRequest:
		return v.validateRegisterRequest(*value, fields...)

	case models.SocialTokenRequest:
		return v.validateSocialTokenRequest(value, fields...)
	case *models.SocialTokenRequest:
		return v.validateSocialTokenRequest(*value, fields...)

	case models.PasswordResetRequest:
		return v.validatePasswordResetRequest(value, fields...)
	case *models.PasswordResetRequest:
		return v.validatePasswordResetRequest(*value, fields...)

	case models.PasswordResetConfirmRequest:
		return v.validatePasswordResetConfirm(value, fields...)
	case *models.PasswordResetConfirmRequest:
		return v.validatePasswordResetConfirm(*value, fields...)

	case models.ProfileUpdate:
		return v.validateProfileUpdate(value, fields...)
	case *models.ProfileUpdate:
		return v.validateProfileUpdate(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateSessionRequest only checks presence. Credential rules are not
// applied on login so that an old password still reaches the comparison.
func (v *CredentialsValidator) validateSessionRequest(req models.CreateSessionRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if strings.TrimSpace(req.Username) == "" {
				return ErrEmptyUsername
			}
		case FieldPassword:
			if req.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CredentialsValidator) validateRegisterRequest(req models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldUsernameFormat, FieldPassword, FieldPasswordStrength, FieldEmail}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if req.Username == "" {
				return ErrEmptyUsername
			}
		case FieldUsernameFormat:
			if err := validateUsername(req.Username); err != nil {
				return err
			}
		case FieldPassword:
			if req.Password == "" {
				return ErrEmptyPassword
			}
		case FieldPasswordStrength:
			if err := validatePasswordStrength(req.Password); err != nil {
				return err
			}
		case FieldEmail:
			if req.Email != "" && !isValidEmail(req.Email) {
				return ErrInvalidEmail
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CredentialsValidator) validateSocialTokenRequest(req models.SocialTokenRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldAccessToken}
	}

	for _, f := range fields {
		switch f {
		case FieldAccessToken:
			if strings.TrimSpace(req.AccessToken) == "" {
				return ErrEmptyAccessToken
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CredentialsValidator) validatePasswordResetRequest(req models.PasswordResetRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if req.Email == "" {
				return ErrEmptyEmail
			}
			if !isValidEmail(req.Email) {
				return ErrInvalidEmail
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CredentialsValidator) validatePasswordResetConfirm(req models.PasswordResetConfirmRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldResetToken, FieldPassword, FieldPasswordStrength}
	}

	for _, f := range fields {
		switch f {
		case FieldResetToken:
			if req.Token == "" {
				return ErrEmptyResetToken
			}
		case FieldPassword:
			if req.Password == "" {
				return ErrEmptyPassword
			}
		case FieldPasswordStrength:
			if err := validatePasswordStrength(req.Password); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateProfileUpdate checks only the fields that are present: nil means
// "do not touch". An empty email clears the address.
func (v *CredentialsValidator) validateProfileUpdate(update models.ProfileUpdate, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldEmail, FieldProfile, FieldAvatarURL}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if update.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldEmail:
			if update.Email != nil && *update.Email != "" && !isValidEmail(*update.Email) {
				return ErrInvalidEmail
			}
		case FieldProfile:
			if tooLong(update.Bio, maxBioLength) ||
				tooLong(update.FacebookHandle, maxHandleLength) ||
				tooLong(update.TwitterHandle, maxHandleLength) ||
				tooLong(update.InstagramHandle, maxHandleLength) {
				return ErrFieldTooLong
			}
		case FieldAvatarURL:
			if update.AvatarURL != nil && *update.AvatarURL != "" && !isValidAvatarURL(*update.AvatarURL) {
				return ErrInvalidAvatarURL
			}
		default:
			return ErrUnknownField
		}
	}

	if update.IsEmpty() {
		return ErrNoFieldsToUpdate
	}

	return nil
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	if strings.HasPrefix(strings.ToLower(username), ReservedUsernamePrefix) {
		return ErrReservedUsername
	}
	return nil
}

func validatePasswordStrength(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

// isValidEmail accepts a bare address only, without a display name.
func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

func isValidAvatarURL(raw string) bool {
	if len(raw) > maxURLLength {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func tooLong(s *string, limit int) bool {
	return s != nil && len(*s) > limit
}
