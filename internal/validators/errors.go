package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyUsername    = errors.New("username is required")
	ErrInvalidUsername  = errors.New("username must be 3-32 letters, digits, '.', '_' or '-'")
	ErrReservedUsername = errors.New("username prefix is reserved")
	ErrEmptyPassword    = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrEmptyEmail       = errors.New("email is required")
	ErrEmptyAccessToken = errors.New("access token is required")
	ErrEmptyResetToken  = errors.New("reset token is required")
	ErrInvalidUserID    = errors.New("invalid user ID")
	ErrNoFieldsToUpdate = errors.New("at least one field must be provided for update")
	ErrFieldTooLong     = errors.New("field value is too long")
	ErrInvalidAvatarURL = errors.New("avatar url must be an absolute http(s) url")
)
