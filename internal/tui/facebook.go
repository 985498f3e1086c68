package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/crowdblog-auth/internal/service"
)

// FacebookModel accepts a Facebook access token obtained out of band and trades it
// for a session. The exchange is attempted once per submission.
type FacebookModel struct {
	ctx  context.Context
	auth service.ClientAuthService

	form       form
	submitting bool
	errMsg     string
}

func NewFacebookModel(ctx context.Context, auth service.ClientAuthService) *FacebookModel {
	return &FacebookModel{
		ctx:  ctx,
		auth: auth,
		form: newForm(newInput("facebook access token", 0, true)),
	}
}

func (m *FacebookModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *FacebookModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(LoginResult); ok {
		m.submitting = false
		if result.Err != nil {
			m.errMsg = humanizeError(result.Err)
			return m, nil
		}
		m.errMsg = ""
		m.form.reset()
		return m, nil
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

			token := strings.TrimSpace(m.form.value(0))
			if token == "" {
				m.errMsg = "Access token is required"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdExchange(token)
		}
	}

	return m, m.form.update(msg)
}

func (m *FacebookModel) View() string {
	var b strings.Builder
	b.WriteString("Paste the access token issued to you by Facebook Login.\n\n")
	b.WriteString("Token  │ [")
	b.WriteString(m.form.inputs[0].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Exchanging...]\n")
	} else {
		b.WriteString("\n[Log in with Facebook]\n")
	}

	writeFeedback(&b, m.errMsg, "")

	return renderPage("FACEBOOK LOGIN", strings.TrimRight(b.String(), "\n"), "esc: back │ enter: submit")
}

func (m *FacebookModel) cmdExchange(token string) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		session, err := auth.ExchangeSocialToken(ctx, token)
		return LoginResult{Err: err, Session: session}
	}
}
