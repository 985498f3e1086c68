package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/service"
	"github.com/MKhiriev/crowdblog-auth/models"
)

var errNoServices = errors.New("client services are not set")

type TUI struct {
	services  *service.ClientServices
	session   *models.ClientSession
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, session *models.ClientSession, buildInfo models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	if services == nil || services.AuthService == nil || session == nil {
		return nil, errNoServices
	}

	return &TUI{
		services:  services,
		session:   session,
		buildInfo: buildInfo,
		logger:    logger,
	}, nil
}

// Run blocks until the user quits. It returns [ErrUserQuit] when the
// program was left with ctrl+c.
func (t *TUI) Run(ctx context.Context) error {
	root := t.newRootModel(ctx)

	finalModel, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		t.logger.Err(err).Str("func", "*TUI.Run").Msg("tui program stopped")
		return err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}

	return nil
}

func (t *TUI) newRootModel(ctx context.Context) RootModel {
	auth := t.services.AuthService
	pages := map[string]tea.Model{
		pageMenu:     NewMenuModel(),
		pageLogin:    NewLoginModel(ctx, auth),
		pageFacebook: NewFacebookModel(ctx, auth),
		pageRegister: NewRegisterModel(ctx, auth),
		pageReset:    NewResetModel(ctx, auth),
		pageAccount:  NewAccountModel(ctx, auth, t.session),
	}

	return NewRootModel(ctx, auth, pages, pageMenu, t.buildInfo)
}
