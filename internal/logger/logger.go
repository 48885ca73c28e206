// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger provides a thin wrapper around zerolog.Logger that adds
// convenience constructors and context-aware helpers used throughout
// scrapegate.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, Fatal, etc.) are available directly on *Logger.
// Request-scoped loggers are obtained via FromContext or FromRequest.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Roles used as the "role" field of each process.
const (
	RoleServer = "scrapegate-server"
	RoleClient = "scrapegate-client"
)

// LevelEnv names the environment variable holding the minimum log level
// ("debug", "info", "warn", "error"). Debug is used when unset or invalid.
const LevelEnv = "LOG_LEVEL"

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// NewLogger constructs a JSON *Logger writing to os.Stdout for the given
// role label.
//
// Every entry carries:
//   - a "role" field set to role;
//   - a "time" timestamp field;
//   - a "func" caller field holding the fully-qualified function name.
func NewLogger(role string) *Logger {
	return New(os.Stdout, role)
}

// New is NewLogger with an explicit destination.
func New(w io.Writer, role string) *Logger {
	configureGlobals()

	logger := zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// NewClientLogger writes to scrapegate/client.log under the user config
// directory so log lines do not interleave with CLI output. Falls back to
// os.Stderr when the file cannot be opened.
func NewClientLogger(role string) *Logger {
	var out io.Writer = os.Stderr

	if dir, err := os.UserConfigDir(); err == nil {
		logDir := filepath.Join(dir, "scrapegate")
		if err = os.MkdirAll(logDir, 0o700); err == nil {
			f, err := os.OpenFile(filepath.Join(logDir, "client.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err == nil {
				out = f
			}
		}
	}

	return New(out, role)
}

func configureGlobals() {
	zerolog.SetGlobalLevel(levelFromEnv())
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"
}

func levelFromEnv() zerolog.Level {
	raw := strings.TrimSpace(os.Getenv(LevelEnv))
	if raw == "" {
		return zerolog.DebugLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.DebugLevel
	}
	return lvl
}

// Nop returns a *Logger that discards all log output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger that inherits all fields of the
// receiver.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// WithEmail returns a child logger tagged with the user's email.
func (l *Logger) WithEmail(email string) *Logger {
	return &Logger{l.With().Str("email", email).Logger()}
}

// WithContext attaches l to ctx so FromContext can retrieve it.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromRequest returns the logger attached to the request's context.
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext returns the logger attached to ctx. When none is attached
// zerolog returns its default logger, so the result is never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
