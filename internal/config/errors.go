package config

import "errors"

// Validation errors returned by validate when required configuration groups
// are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates missing token settings
	// (for example, empty sign key or zero token duration).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates an empty database DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates that no listen address is set or
	// that timeouts/limits are not positive.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAdapterConfigs indicates invalid outbound settings
	// (for example, a Facebook app id without a secret).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
)
