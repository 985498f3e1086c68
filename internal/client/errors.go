package client

import "errors"

var ErrAppNotConfigured = errors.New("client app requires services, session and ui")
