package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/crowdblog-auth/internal/mock"
	"github.com/MKhiriev/crowdblog-auth/internal/service"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
	"github.com/MKhiriev/crowdblog-auth/models"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestRoot(t *testing.T) (RootModel, *mock.MockClientAuthService, *models.ClientSession) {
	t.Helper()
	ctrl := gomock.NewController(t)
	auth := mock.NewMockClientAuthService(ctrl)
	session := &models.ClientSession{}

	ui, err := New(&service.ClientServices{AuthService: auth}, session, models.NewAppBuildInfo("1.0.0", "", ""), nil)
	require.NoError(t, err)

	return ui.newRootModel(context.Background()), auth, session
}

func TestNew_RequiresServices(t *testing.T) {
	_, err := New(nil, &models.ClientSession{}, models.AppBuildInfo{}, nil)
	assert.ErrorIs(t, err, errNoServices)

	_, err = New(&service.ClientServices{}, &models.ClientSession{}, models.AppBuildInfo{}, nil)
	assert.ErrorIs(t, err, errNoServices)
}

func TestMenu_NavigatesToSelectedPage(t *testing.T) {
	m := NewMenuModel()

	m.Update(keyDown)
	_, cmd := m.Update(keyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateTo{Page: pageFacebook}, cmd())

	m.Update(MenuNotice{Text: "Logged out"})
	assert.Contains(t, m.View(), "Logged out")
}

func TestLogin_RequiresBothFields(t *testing.T) {
	m := NewLoginModel(context.Background(), nil)
	m.form.inputs[0].SetValue("alice")

	_, cmd := m.Update(keyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, "Username and password are required", m.errMsg)
	assert.False(t, m.submitting)
}

func TestLogin_ShowsServerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mock.NewMockClientAuthService(ctrl)
	m := NewLoginModel(context.Background(), auth)
	m.form.inputs[0].SetValue(" alice ")
	m.form.inputs[1].SetValue("wrong-password")

	auth.EXPECT().Login(gomock.Any(), "alice", "wrong-password").
		Return(nil, fmt.Errorf("%w: %w", service.ErrLoginOnServer, service.ErrInvalidCredentials))

	_, cmd := m.Update(keyEnter)
	require.NotNil(t, cmd)
	assert.True(t, m.submitting)

	m.Update(cmd())
	assert.False(t, m.submitting)
	assert.Contains(t, m.View(), "Invalid username or password")
}

func TestRoot_LoginOpensAccount(t *testing.T) {
	root, auth, session := newTestRoot(t)

	model, _ := root.Update(NavigateTo{Page: pageLogin})
	root = model.(RootModel)
	login := root.current.(*LoginModel)
	login.form.inputs[0].SetValue("alice")
	login.form.inputs[1].SetValue("secret123")

	auth.EXPECT().Login(gomock.Any(), "alice", "secret123").DoAndReturn(
		func(context.Context, string, string) (*models.ClientSession, error) {
			session.Set("jwt", "sid-1", "alice", models.AuthMethodPassword)
			return session, nil
		},
	)
	auth.EXPECT().Me(gomock.Any()).Return(models.User{UserID: 1, Username: "alice", Email: "alice@example.com"}, nil)
	auth.EXPECT().Sessions(gomock.Any()).Return([]models.Session{
		{SessionID: "sid-1", UserID: 1, AuthMethod: models.AuthMethodPassword, CreatedAt: time.Now()},
	}, nil)

	model, cmd := root.Update(keyEnter)
	root = model.(RootModel)
	require.NotNil(t, cmd)

	model, cmd = root.Update(cmd())
	root = model.(RootModel)
	require.IsType(t, &AccountModel{}, root.current)
	assert.Empty(t, login.form.value(1), "login form is reset")
	require.NotNil(t, cmd)

	model, _ = root.Update(cmd())
	root = model.(RootModel)
	view := root.View()
	assert.Contains(t, view, "alice@example.com")
	assert.Contains(t, view, "sid-1")
}

func TestAccount_ExpiredSessionReturnsToMenu(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mock.NewMockClientAuthService(ctrl)
	m := NewAccountModel(context.Background(), auth, &models.ClientSession{})

	auth.EXPECT().Me(gomock.Any()).Return(models.User{}, service.ErrUnauthenticated)

	cmd := m.Init()
	_, next := m.Update(cmd())
	require.NotNil(t, next)

	nav, ok := next().(NavigateTo)
	require.True(t, ok)
	assert.Equal(t, pageMenu, nav.Page)
	assert.Equal(t, MenuNotice{Text: "Session expired, log in again"}, nav.Payload)
}

func TestAccount_LogoutAndCopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mock.NewMockClientAuthService(ctrl)
	session := &models.ClientSession{}
	session.Set("jwt-token", "sid", "alice", models.AuthMethodFacebook)
	m := NewAccountModel(context.Background(), auth, session)

	var copied string
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}

	_, cmd := m.Update(runeKey("c"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, "jwt-token", copied)
	assert.Equal(t, "Token copied to clipboard", m.status)

	auth.EXPECT().Logout()
	_, cmd = m.Update(runeKey("l"))
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateTo{Page: pageMenu, Payload: MenuNotice{Text: "Logged out"}}, cmd())
}

func TestCopyToClipboard_Failure(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })
	writeClipboard = func(string) error { return errors.New("no clipboard") }

	assert.Equal(t, showErrorMsg{message: "copy to clipboard: no clipboard"}, cmdCopyToClipboard("jwt")())
	assert.Equal(t, showErrorMsg{message: "Nothing to copy"}, cmdCopyToClipboard("")())
}

func TestRegister_Validation(t *testing.T) {
	m := NewRegisterModel(context.Background(), nil)
	m.form.inputs[0].SetValue("alice")
	m.form.inputs[2].SetValue("secret123")
	m.form.inputs[3].SetValue("secret124")

	_, cmd := m.Update(keyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, "Passwords do not match", m.errMsg)

	m.form.inputs[2].SetValue("short")
	m.form.inputs[3].SetValue("short")
	m.Update(keyEnter)
	assert.Equal(t, "Password must be at least 8 characters", m.errMsg)
}

func TestRegister_SuccessReturnsToMenu(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mock.NewMockClientAuthService(ctrl)
	m := NewRegisterModel(context.Background(), auth)
	m.form.inputs[0].SetValue("alice")
	m.form.inputs[2].SetValue("secret123")
	m.form.inputs[3].SetValue("secret123")

	auth.EXPECT().Register(gomock.Any(), models.RegisterRequest{Username: "alice", Password: "secret123"}).
		Return(models.RegisterResponse{UserID: 1, Username: "alice"}, nil)

	_, cmd := m.Update(keyEnter)
	require.NotNil(t, cmd)
	_, cmd = m.Update(cmd())
	require.NotNil(t, cmd)

	nav := cmd().(NavigateTo)
	assert.Equal(t, pageMenu, nav.Page)
	assert.Equal(t, MenuNotice{Text: "User alice registered, log in to continue"}, nav.Payload)
	assert.Empty(t, m.form.value(0))
}

func TestReset_AlwaysReportsTheSameNotice(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mock.NewMockClientAuthService(ctrl)
	m := NewResetModel(context.Background(), auth)
	m.form.inputs[0].SetValue("nobody@example.com")

	auth.EXPECT().RequestPasswordReset(gomock.Any(), "nobody@example.com").Return(nil)

	_, cmd := m.Update(keyEnter)
	require.NotNil(t, cmd)
	_, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateTo{Page: pageMenu, Payload: MenuNotice{Text: resetRequestedNotice}}, cmd())
}

func TestRoot_BuildInfoOverlay(t *testing.T) {
	root, auth, _ := newTestRoot(t)

	auth.EXPECT().ServerVersion(gomock.Any()).Return("2.3.4", nil)

	model, cmd := root.Update(runeKey("v"))
	root = model.(RootModel)
	require.NotNil(t, cmd)
	assert.True(t, root.showBuildInfo)

	model, _ = root.Update(cmd())
	root = model.(RootModel)
	view := root.View()
	assert.Contains(t, view, "Version: 1.0.0")
	assert.Contains(t, view, "Date: N/A")
	assert.Contains(t, view, "Server version: 2.3.4")

	model, _ = root.Update(keyEsc)
	root = model.(RootModel)
	assert.False(t, root.showBuildInfo)
}

func TestRoot_ErrorOverlay(t *testing.T) {
	root, _, _ := newTestRoot(t)

	model, _ := root.Update(showErrorMsg{message: "boom"})
	root = model.(RootModel)
	assert.Contains(t, root.View(), "boom")

	model, _ = root.Update(keyDown)
	root = model.(RootModel)
	assert.NotNil(t, root.errOverlay, "keys other than enter/esc are swallowed")

	model, _ = root.Update(keyEnter)
	root = model.(RootModel)
	assert.Nil(t, root.errOverlay)
}

func TestRoot_CtrlCQuits(t *testing.T) {
	root, _, _ := newTestRoot(t)

	model, cmd := root.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, model.(RootModel).quitByUser)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestHumanizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "credentials", err: fmt.Errorf("%w: %w", service.ErrLoginOnServer, service.ErrInvalidCredentials), want: "Invalid username or password"},
		{name: "facebook rejected", err: fmt.Errorf("%w: %w", service.ErrSocialLoginFailed, service.ErrUpstreamIdentity), want: "Facebook rejected the token"},
		{name: "facebook transport", err: fmt.Errorf("%w: dial tcp: connection refused", service.ErrSocialLoginFailed), want: "Network is down or the server is unavailable"},
		{name: "facebook other", err: service.ErrSocialLoginFailed, want: "Facebook login failed"},
		{name: "username taken", err: store.ErrUsernameAlreadyExists, want: "Username is already taken"},
		{name: "rate limited", err: service.ErrTooManyAttempts, want: "Too many attempts, try again in a minute"},
		{name: "other", err: errors.New("weird"), want: "weird"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, humanizeError(tt.err))
		})
	}
}
