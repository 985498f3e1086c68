package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/crowdblog-auth/internal/service"
)

const resetRequestedNotice = "If the address is registered, a reset link is on its way"

// ResetModel requests a password reset email. The server answers the same way
// whether or not the address is known, and so does this screen.
type ResetModel struct {
	ctx  context.Context
	auth service.ClientAuthService

	form       form
	submitting bool
	errMsg     string
}

func NewResetModel(ctx context.Context, auth service.ClientAuthService) *ResetModel {
	return &ResetModel{
		ctx:  ctx,
		auth: auth,
		form: newForm(newInput("email", 254, false)),
	}
}

func (m *ResetModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ResetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(resetRequestedMsg); ok {
		m.submitting = false
		if result.err != nil {
			m.errMsg = humanizeError(result.err)
			return m, nil
		}
		m.errMsg = ""
		m.form.reset()
		return m, func() tea.Msg {
			return NavigateTo{Page: pageMenu, Payload: MenuNotice{Text: resetRequestedNotice}}
		}
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.submitting = false
			m.errMsg = ""
			return m, func() tea.Msg { return NavigateTo{Page: pageMenu} }
		case key.Matches(keyMsg, keys.enter):
			if m.submitting {
				return m, nil
			}

			email := strings.TrimSpace(m.form.value(0))
			if email == "" {
				m.errMsg = "Email is required"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdRequest(email)
		}
	}

	return m, m.form.update(msg)
}

func (m *ResetModel) View() string {
	var b strings.Builder
	b.WriteString("Email  │ [")
	b.WriteString(m.form.inputs[0].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Sending...]\n")
	} else {
		b.WriteString("\n[Send reset link]\n")
	}

	writeFeedback(&b, m.errMsg, "")

	return renderPage("FORGOT PASSWORD", strings.TrimRight(b.String(), "\n"), "esc: back │ enter: submit")
}

func (m *ResetModel) cmdRequest(email string) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		return resetRequestedMsg{err: auth.RequestPasswordReset(ctx, email)}
	}
}
