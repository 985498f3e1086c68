// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/crowdblog-auth/internal/adapter"
	"github.com/MKhiriev/crowdblog-auth/internal/app"
	"github.com/MKhiriev/crowdblog-auth/internal/store"
)

// mapAdapterError translates the adapter's transport error into a service
// business error. The transport error stays in the chain.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	mapped := businessError(err)
	if mapped == nil {
		return err
	}

	return fmt.Errorf("%w: %w", mapped, err)
}

func businessError(err error) error {
	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		if msg == app.MsgInvalidResetToken {
			return ErrInvalidResetToken
		}
		return ErrInvalidDataProvided

	case errors.Is(err, adapter.ErrUnauthorized):
		if msg == app.MsgInvalidCredentials {
			return ErrInvalidCredentials
		}
		return ErrUnauthenticated

	case errors.Is(err, adapter.ErrConflict):
		switch msg {
		case app.MsgUsernameAlreadyExists:
			return store.ErrUsernameAlreadyExists
		case app.MsgEmailAlreadyExists:
			return store.ErrEmailAlreadyExists
		}

	case errors.Is(err, adapter.ErrBadGateway):
		return ErrUpstreamIdentity

	case errors.Is(err, adapter.ErrTooManyRequests):
		return ErrTooManyAttempts
	}

	return nil
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}
