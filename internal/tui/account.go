package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/crowdblog-auth/internal/service"
	"github.com/MKhiriev/crowdblog-auth/models"
)

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

// AccountModel shows the logged-in user and the sessions recorded for them.
type AccountModel struct {
	ctx     context.Context
	auth    service.ClientAuthService
	session *models.ClientSession

	user     models.User
	sessions []models.Session
	loading  bool
	errMsg   string
	status   string
}

func NewAccountModel(ctx context.Context, auth service.ClientAuthService, session *models.ClientSession) *AccountModel {
	return &AccountModel{ctx: ctx, auth: auth, session: session}
}

// Init reloads the profile every time the page is opened.
func (m *AccountModel) Init() tea.Cmd {
	m.loading = true
	m.errMsg = ""
	return m.cmdLoad()
}

func (m *AccountModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case accountLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, service.ErrUnauthenticated) || errors.Is(msg.err, service.ErrNotLoggedIn) {
				m.reset()
				return m, func() tea.Msg {
					return NavigateTo{Page: pageMenu, Payload: MenuNotice{Text: humanizeError(msg.err)}}
				}
			}
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.user = msg.user
		m.sessions = msg.sessions
		return m, nil
	case copiedMsg:
		m.status = "Token copied to clipboard"
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.cmdLoad()
		case key.Matches(msg, keys.copy):
			return m, cmdCopyToClipboard(m.session.Token())
		case key.Matches(msg, keys.logout):
			m.auth.Logout()
			m.reset()
			return m, func() tea.Msg {
				return NavigateTo{Page: pageMenu, Payload: MenuNotice{Text: "Logged out"}}
			}
		}
	}

	return m, nil
}

func (m *AccountModel) View() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Username  │ %s\n", valueOrDash(m.user.Username)))
	b.WriteString(fmt.Sprintf("Email     │ %s\n", valueOrDash(m.user.Email)))
	b.WriteString(fmt.Sprintf("Role      │ %s\n", valueOrDash(m.user.Role)))
	b.WriteString(fmt.Sprintf("Bio       │ %s\n", valueOrDash(fitText(m.user.Bio, 60))))
	b.WriteString(fmt.Sprintf("Logged in │ via %s, session %s\n", valueOrDash(string(m.session.Method())), valueOrDash(m.session.SessionID())))

	b.WriteString("\nSessions\n")
	b.WriteString("Session ID                 │ Method    │ Created\n")
	b.WriteString("───────────────────────────┼───────────┼─────────────────────\n")
	if m.loading {
		b.WriteString("loading...\n")
	}
	for _, s := range m.sessions {
		marker := " "
		if s.SessionID == m.session.SessionID() {
			marker = "*"
		}
		b.WriteString(fmt.Sprintf("%s %-24s │ %-9s │ %s\n",
			marker, fitText(s.SessionID, 24), s.AuthMethod, s.CreatedAt.Local().Format(time.DateTime)))
	}

	writeFeedback(&b, m.errMsg, m.status)

	return renderPage("ACCOUNT", strings.TrimRight(b.String(), "\n"), "r: refresh │ c: copy token │ l: log out")
}

func (m *AccountModel) reset() {
	m.user = models.User{}
	m.sessions = nil
	m.loading = false
	m.errMsg = ""
	m.status = ""
}

func (m *AccountModel) cmdLoad() tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		user, err := auth.Me(ctx)
		if err != nil {
			return accountLoadedMsg{err: err}
		}
		sessions, err := auth.Sessions(ctx)
		return accountLoadedMsg{user: user, sessions: sessions, err: err}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if text == "" {
			return showErrorMsg{message: "Nothing to copy"}
		}
		if err := writeClipboard(text); err != nil {
			return showErrorMsg{message: fmt.Sprintf("copy to clipboard: %v", err)}
		}
		return copiedMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
