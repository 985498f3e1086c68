package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/crowdblog-auth/internal/service"
	"github.com/MKhiriev/crowdblog-auth/models"
)

const minPasswordLength = 8

// RegisterModel is the Bubble Tea model for the registration screen. It renders four
// text inputs (username, email, password and password confirmation) and dispatches an
// async registration command on form submission.
// On success the form is reset and the user is sent back to the menu with a notice.
type RegisterModel struct {
	ctx  context.Context
	auth service.ClientAuthService

	form       form
	submitting bool
	errMsg     string
}

// NewRegisterModel creates a [RegisterModel]. The username field receives focus
// immediately; the password fields use masked echo.
func NewRegisterModel(ctx context.Context, auth service.ClientAuthService) *RegisterModel {
	return &RegisterModel{
		ctx:  ctx,
		auth: auth,
		form: newForm(
			newInput("username", 64, false),
			newInput("email (optional)", 254, false),
			newInput("password", 256, true),
			newInput("repeat password", 256, true),
		),
	}
}

// Init implements [tea.Model]. Starts the cursor-blink animation for the active input.
func (m *RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [RegisterResult] clears submitting state; on error populates errMsg,
//     on success resets the form and navigates to the menu.
//   - esc              navigates back to the menu.
//   - tab/shift+tab    moves focus between inputs.
//   - enter            validates inputs (passwords must match) and dispatches
//     the async registration command.
func (m *RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(RegisterResult); ok {
		m.submitting = false
		if result.Err != nil {
			m.errMsg = humanizeError(result.Err)
			return m, nil
		}

		m.errMsg = ""
		m.form.reset()
		return m, func() tea.Msg {
			return NavigateTo{
				Page:    pageMenu,
				Payload: MenuNotice{Text: "User " + result.Username + " registered, log in to continue"},
			}
		}
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

			req := models.RegisterRequest{
				Username: strings.TrimSpace(m.form.value(0)),
				Email:    strings.TrimSpace(m.form.value(1)),
				Password: m.form.value(2),
			}
			repeat := m.form.value(3)

			switch {
			case req.Username == "" || req.Password == "":
				m.errMsg = "Username and password are required"
				return m, nil
			case len(req.Password) < minPasswordLength:
				m.errMsg = "Password must be at least 8 characters"
				return m, nil
			case req.Password != repeat:
				m.errMsg = "Passwords do not match"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdRegister(req)
		}
	}

	return m, m.form.update(msg)
}

// View implements [tea.Model].
func (m *RegisterModel) View() string {
	var b strings.Builder
	b.WriteString("Field            │ Value\n")
	b.WriteString("─────────────────┼────────────────────────────────────\n")
	labels := []string{"Username", "Email", "Password", "Repeat password"}
	for i, label := range labels {
		b.WriteString(label)
		b.WriteString(strings.Repeat(" ", 17-len(label)))
		b.WriteString("│ [")
		b.WriteString(m.form.inputs[i].View())
		b.WriteString("]\n")
	}

	if m.submitting {
		b.WriteString("\n[Registering...]\n")
	} else {
		b.WriteString("\n[Register]\n")
	}

	writeFeedback(&b, m.errMsg, "")

	return renderPage("REGISTER", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *RegisterModel) cmdRegister(req models.RegisterRequest) tea.Cmd {
	ctx := m.ctx
	auth := m.auth

	return func() tea.Msg {
		resp, err := auth.Register(ctx, req)
		username := resp.Username
		if username == "" {
			username = req.Username
		}
		return RegisterResult{Err: err, Username: username}
	}
}
