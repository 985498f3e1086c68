package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
	"github.com/MKhiriev/crowdblog-auth/internal/validators"
	"github.com/MKhiriev/crowdblog-auth/models"
)

type userService struct {
	userRepository    store.UserRepository
	sessionRepository store.SessionRepository
	validator         validators.Validator

	logger *logger.Logger
}

func NewUserService(userRepository store.UserRepository, sessionRepository store.SessionRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		validator:         validators.NewCredentialsValidator(),
		logger:            logger,
	}
}

// GetUser returns the user with userID. A missing user surfaces as
// store.ErrNoUserWasFound in the error chain.
func (u *userService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	user, err := u.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", userID).Msg("user search by id failed")
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	return user, nil
}

// UpdateProfile applies the fields present in update. Role is not part of
// models.ProfileUpdate, so it can never be changed here.
func (u *userService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	if update.Email != nil {
		email := utils.NormalizeEmail(*update.Email)
		update.Email = &email
	}

	if err := u.validator.Validate(ctx, update); err != nil {
		log.Error().Err(err).Int64("user_id", update.UserID).Msg("invalid profile update provided")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	user, err := u.userRepository.UpdateProfile(ctx, update)
	if err != nil {
		log.Err(err).Int64("user_id", update.UserID).Msg("profile update ended with error")
		return models.User{}, fmt.Errorf("profile update ended with error: %w", err)
	}

	return user, nil
}

func (u *userService) ListSessions(ctx context.Context, userID int64) ([]models.Session, error) {
	sessions, err := u.sessionRepository.ListUserSessions(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", userID).Msg("session listing failed")
		return nil, fmt.Errorf("session listing failed: %w", err)
	}

	return sessions, nil
}
