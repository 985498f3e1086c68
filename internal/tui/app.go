package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/crowdblog-auth/internal/service"
	"github.com/MKhiriev/crowdblog-auth/models"
)

const (
	pageMenu     = "menu"
	pageLogin    = "login"
	pageFacebook = "facebook"
	pageRegister = "register"
	pageReset    = "reset"
	pageAccount  = "account"
)

// RootModel is a TUI router:
// 1) keeps active page
// 2) handles global ctrl+c quit and the build info and error overlays
// 3) handles NavigateTo messages and opens the account page after login
// 4) delegates all other messages to the active page
type RootModel struct {
	ctx  context.Context
	auth service.ClientAuthService

	pages   map[string]tea.Model
	current tea.Model

	quitByUser bool
	buildInfo  models.AppBuildInfo

	showBuildInfo bool
	serverVersion string
	errOverlay    *errorOverlayModel
}

// NewRootModel registers all pages and opens startPage.
func NewRootModel(ctx context.Context, auth service.ClientAuthService, pages map[string]tea.Model, startPage string, buildInfo models.AppBuildInfo) RootModel {
	return RootModel{
		ctx:       ctx,
		auth:      auth,
		pages:     pages,
		current:   pages[startPage],
		buildInfo: buildInfo,
	}
}

func (r RootModel) Init() tea.Cmd {
	if r.current == nil {
		return nil
	}
	return r.current.Init()
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Global hotkeys for every page.
	if k, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(k, keys.quit) {
			r.quitByUser = true
			return r, tea.Quit
		}

		if r.errOverlay != nil {
			if key.Matches(k, keys.esc, keys.enter) {
				r.errOverlay = nil
			}
			return r, nil
		}

		switch {
		case key.Matches(k, keys.version):
			if r.isMenuPage() {
				r.showBuildInfo = !r.showBuildInfo
				if r.showBuildInfo && r.serverVersion == "" {
					return r, r.cmdServerVersion()
				}
				return r, nil
			}
		case key.Matches(k, keys.esc):
			if r.showBuildInfo {
				r.showBuildInfo = false
				return r, nil
			}
		}

		if r.showBuildInfo {
			return r, nil
		}
	}

	switch msg := msg.(type) {
	case NavigateTo:
		return r.navigate(msg)
	case serverVersionMsg:
		if msg.err == nil {
			r.serverVersion = msg.version
		}
		return r, nil
	case showErrorMsg:
		r.errOverlay = &errorOverlayModel{message: msg.message}
		return r, nil
	case LoginResult:
		if msg.Err == nil {
			if r.current != nil {
				r.current, _ = r.current.Update(msg)
			}
			return r.navigate(NavigateTo{Page: pageAccount})
		}
	}

	if r.current == nil {
		return r, nil
	}

	updated, cmd := r.current.Update(msg)
	r.current = updated
	return r, cmd
}

func (r RootModel) View() string {
	if r.errOverlay != nil {
		return r.errOverlay.View()
	}
	if r.showBuildInfo {
		return renderBuildInfoWindow(r.buildInfo, r.serverVersion)
	}
	if r.current == nil {
		return renderPage("TUI", "", "")
	}
	return r.current.View()
}

func (r RootModel) navigate(nav NavigateTo) (tea.Model, tea.Cmd) {
	next, exists := r.pages[nav.Page]
	if !exists {
		return r, nil
	}

	r.showBuildInfo = false
	r.current = next

	if nav.Payload != nil {
		return r, func() tea.Msg { return nav.Payload }
	}
	return r, r.current.Init()
}

func (r RootModel) isMenuPage() bool {
	_, ok := r.current.(*MenuModel)
	return ok
}

func (r RootModel) cmdServerVersion() tea.Cmd {
	ctx := r.ctx
	auth := r.auth

	return func() tea.Msg {
		version, err := auth.ServerVersion(ctx)
		return serverVersionMsg{version: version, err: err}
	}
}
