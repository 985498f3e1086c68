package service

import (
	"fmt"

	"github.com/MKhiriev/crowdblog-auth/internal/adapter"
	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
)

type Services struct {
	TokenService         TokenService
	AuthService          AuthService
	SocialAuthService    SocialAuthService
	UserService          UserService
	PasswordResetService PasswordResetService
	AppInfoService       AppInfoService
}

func NewServices(storages *store.Storages, adapters *adapter.Adapters, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	tokenService, err := NewTokenService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating token service: %w", err)
	}

	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	socialAuthService := NewSocialAuthService(
		adapters.IdentityProvider,
		storages.SocialProfileCache,
		cfg.Storage.Cache.TTL,
		storages.UserRepository,
		storages.SessionRepository,
		tokenService,
		logger,
	)

	return &Services{
		TokenService:         tokenService,
		AuthService:          NewAuthService(storages.UserRepository, storages.SessionRepository, tokenService, logger),
		SocialAuthService:    socialAuthService,
		UserService:          NewUserService(storages.UserRepository, storages.SessionRepository, logger),
		PasswordResetService: NewPasswordResetService(storages.UserRepository, storages.PasswordResetRepository, adapters.Mailer, cfg.App, logger),
		AppInfoService:       appInfoService,
	}, nil
}
