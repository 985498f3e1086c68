// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It ties the terminal UI to the client auth service and owns the in-memory
// session for the lifetime of the process.
package client
