package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/service"
	"github.com/MKhiriev/crowdblog-auth/internal/tui"
	"github.com/MKhiriev/crowdblog-auth/models"
)

type App struct {
	services *service.ClientServices
	session  *models.ClientSession
	ui       UI
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, session *models.ClientSession, ui UI, logger *logger.Logger) (*App, error) {
	if services == nil || session == nil || ui == nil {
		return nil, ErrAppNotConfigured
	}

	return &App{services: services, session: session, ui: ui, logger: logger}, nil
}

// Run blocks until the UI exits. The token is held in memory only, so it
// is discarded on the way out.
func (a *App) Run() error {
	defer a.services.AuthService.Logout()

	err := a.ui.Run(context.Background())
	if errors.Is(err, tui.ErrUserQuit) {
		a.logger.Info().Str("func", "*App.Run").Msg("client closed by user")
		return nil
	}
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	return nil
}
