// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/crowdblog-auth/internal/service"
)

// LoginModel is the Bubble Tea model for the password login screen. It renders two
// text inputs (username and password) and dispatches an async login command on form
// submission. The outcome arrives as a [LoginResult], which [RootModel] also observes
// to open the account page on success.
type LoginModel struct {
	ctx  context.Context
	auth service.ClientAuthService

	form       form
	submitting bool
	errMsg     string
}

// NewLoginModel creates a [LoginModel] with the username field focused and the
// password field masked.
func NewLoginModel(ctx context.Context, auth service.ClientAuthService) *LoginModel {
	return &LoginModel{
		ctx:  ctx,
		auth: auth,
		form: newForm(
			newInput("username", 64, false),
			newInput("password", 256, true),
		),
	}
}

// Init implements [tea.Model]. Starts the cursor-blink animation for the active input.
func (m *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [LoginResult]  clears submitting state; populates errMsg or resets the form.
//   - esc            navigates back to the menu.
//   - tab/shift+tab  moves focus between inputs.
//   - enter          validates inputs and dispatches the async login command.
//
// All other key events are forwarded to the focused input widget.
func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		case key.Matches(keyMsg, keys.tab):
			m.form.focusNext()
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.form.focusPrev()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.submitting {
				return m, nil
			}

			username := strings.TrimSpace(m.form.value(0))
			password := m.form.value(1)
			if username == "" || password == "" {
				m.errMsg = "Username and password are required"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdLogin(username, password)
		}
	}

	return m, m.form.update(msg)
}

// View implements [tea.Model].
func (m *LoginModel) View() string {
	var b strings.Builder
	b.WriteString("Field     │ Value\n")
	b.WriteString("──────────┼────────────────────────────────────────────\n")
	b.WriteString("Username  │ [")
	b.WriteString(m.form.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Password  │ [")
	b.WriteString(m.form.inputs[1].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Logging in...]\n")
	} else {
		b.WriteString("\n[Log in]\n")
	}

	writeFeedback(&b, m.errMsg, "")

	return renderPage("LOG IN", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *LoginModel) cmdLogin(username, password string) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		session, err := auth.Login(ctx, username, password)
		return LoginResult{Err: err, Session: session}
	}
}
