package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is the focus ring shared by the input screens.
type form struct {
	inputs []textinput.Model
	focus  int
}

func newInput(placeholder string, charLimit int, masked bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Width = 40
	if charLimit > 0 {
		in.CharLimit = charLimit
	}
	if masked {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '*'
	}
	return in
}

func newForm(inputs ...textinput.Model) form {
	if len(inputs) > 0 {
		inputs[0].Focus()
	}
	return form{inputs: inputs}
}

func (f *form) value(i int) string {
	return f.inputs[i].Value()
}

func (f *form) focusNext() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *form) focusPrev() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// update forwards msg to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = 0
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
}
