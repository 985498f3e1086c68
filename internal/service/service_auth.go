package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
	"github.com/MKhiriev/crowdblog-auth/internal/validators"
	"github.com/MKhiriev/crowdblog-auth/models"
)

// authService is the concrete implementation of AuthService.
// It handles user registration and password login using bcrypt hashes
// stored by the UserRepository.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// sessions records the session row and mints the token after a
	// successful login.
	sessions *sessionIssuer

	validator validators.Validator

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// repositories and token service.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, sessionRepository store.SessionRepository, tokenService TokenService, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		sessions:       newSessionIssuer(sessionRepository, tokenService),
		validator:      validators.NewCredentialsValidator(),
		logger:         logger,
	}
}

// RegisterUser creates a new password account.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - ErrInvalidDataProvided if the username, password or email is rejected.
//   - A wrapped store.ErrUsernameAlreadyExists / store.ErrEmailAlreadyExists
//     on a conflict.
func (a *authService) RegisterUser(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	req.Email = utils.NormalizeEmail(req.Email)
	if err := a.validator.Validate(ctx, req); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("invalid user data provided")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Err(err).Str("func", "*authService.RegisterUser").Msg("error hashing password")
		return models.User{}, fmt.Errorf("error hashing password: %w", err)
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, models.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		Email:        req.Email,
		Role:         models.RoleUser,
	})
	if err != nil {
		log.Err(err).Str("username", req.Username).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Int64("user_id", registeredUser.UserID).Msg("user registered")

	return registeredUser, nil
}

// CreateSession authenticates an existing user and starts a session.
//
// An unknown username and a wrong password both yield ErrInvalidCredentials,
// and both pay for one bcrypt comparison. Accounts without a password
// (social only) always fail here.
func (a *authService) CreateSession(ctx context.Context, req models.CreateSessionRequest) (models.SessionResult, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		log.Error().Err(err).Msg("invalid session data provided")
		return models.SessionResult{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	foundUser, err := a.userRepository.FindUserByUsername(ctx, req.Username)
	if errors.Is(err, store.ErrNoUserWasFound) {
		utils.CheckPassword("", req.Password)
		log.Info().Str("username", req.Username).Msg("login attempt for unknown user")
		return models.SessionResult{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Str("username", req.Username).Msg("user search by username failed")
		return models.SessionResult{}, fmt.Errorf("user search by username failed: %w", err)
	}

	if !utils.CheckPassword(foundUser.PasswordHash, req.Password) {
		log.Info().
			Int64("id", foundUser.UserID).
			Bool("has_password", foundUser.HasPassword()).
			Msg("wrong password")
		return models.SessionResult{}, ErrInvalidCredentials
	}

	return a.sessions.start(ctx, foundUser, models.AuthMethodPassword)
}
