// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog.Logger with the constructors and
// context helpers used by the crowdblog auth server and its terminal client.
//
// The Logger type embeds zerolog.Logger so all zerolog methods (Debug, Info,
// Warn, Error, Fatal, etc.) are available directly on *Logger. Request-scoped
// loggers are attached to the context by the HTTP middleware and recovered
// with FromContext or FromRequest.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New builds a JSON *Logger writing to w. Every entry carries a "role"
// field, a timestamp, and a "func" field holding the calling function name.
func New(w io.Writer, role string) *Logger {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	logger := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// NewLogger constructs the server *Logger for the given role label
// (e.g. "server", "migrations"). Output goes to os.Stdout at debug level.
func NewLogger(role string) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	return New(os.Stdout, role)
}

// NewClientLogger constructs a *Logger for the terminal client. The TUI owns
// stdout, so entries are appended to crowdblog/client.log under the user
// cache directory, falling back to io.Discard when it cannot be opened.
func NewClientLogger(role string) *Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var out io.Writer = io.Discard
	if dir, err := os.UserCacheDir(); err == nil {
		logDir := filepath.Join(dir, "crowdblog")
		if err := os.MkdirAll(logDir, 0o700); err == nil {
			f, err := os.OpenFile(filepath.Join(logDir, "client.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err == nil {
				out = f
			}
		}
	}

	return New(out, role)
}

// Nop returns a *Logger that discards all log output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger that inherits all fields of the
// receiver and can be enriched without affecting the parent.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// WithTraceID returns a child logger carrying the "trace_id" field.
func (l *Logger) WithTraceID(traceID string) *Logger {
	return &Logger{l.With().Str("trace_id", traceID).Logger()}
}

// FromRequest returns the logger attached to the request's context.
func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext returns the logger attached to ctx via zerolog's WithContext.
// If none is attached, zerolog's disabled default is returned, so the result
// is never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
