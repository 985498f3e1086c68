// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client is a runnable client application.
type Client interface {
	// Run blocks until the user leaves the application.
	Run() error
}

// UI is the interactive front end driven by [App]. It returns when the user
// quits; the token it obtained is held in the shared session only.
type UI interface {
	Run(ctx context.Context) error
}
