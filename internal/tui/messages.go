package tui

import "github.com/MKhiriev/crowdblog-auth/models"

// NavigateTo asks [RootModel] to switch the active page. When Payload is
// set it is delivered to the new page as the next message.
type NavigateTo struct {
	Page    string
	Payload any
}

// LoginResult is produced by both the password and the Facebook login
// screens.
type LoginResult struct {
	Err     error
	Session *models.ClientSession
}

type RegisterResult struct {
	Err      error
	Username string
}

// MenuNotice is shown as a status line on the menu after navigating back.
type MenuNotice struct {
	Text string
}

type accountLoadedMsg struct {
	user     models.User
	sessions []models.Session
	err      error
}

type resetRequestedMsg struct {
	err error
}

type serverVersionMsg struct {
	version string
	err     error
}

type showErrorMsg struct {
	message string
}

type copiedMsg struct{}

type clearStatusMsg struct{}
