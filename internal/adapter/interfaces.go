// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the scrapegate server.
//
// The primary abstraction is [ServerAdapter], which decouples the client from
// the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrTooManyRequests] for 429, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/models"
)

// ServerInfo is the answer of the version endpoint.
type ServerInfo struct {
	Version      string              `json:"version"`
	Capabilities config.Capabilities `json:"capabilities"`
}

// ServerAdapter defines transport-agnostic communication with the scrapegate
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// session requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// SetAdminKey stores the key sent in the X-Admin-Key header of admin
	// requests.
	SetAdminKey(key string)

	// Version fetches the server version and its enabled capabilities.
	Version(ctx context.Context) (ServerInfo, error)

	// Register creates a user on the server.
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)

	// Authenticate runs the access flow. A denial is not an error: the
	// returned result carries the reason. When the server issues a session
	// token it is stored via SetToken.
	Authenticate(ctx context.Context, req models.AuthenticateRequest) (models.AuthResult, error)

	// LogActivity reports one scraping action of the current session. As with
	// Authenticate, a denial or automatic ban is returned as an outcome.
	LogActivity(ctx context.Context, req models.ActivityRequest) (models.ActivityOutcome, error)

	// CheckLimits returns the daily quota of the current session's user.
	CheckLimits(ctx context.Context) (models.QuotaStatus, error)

	// SubmitContact posts a message to the operators' inbox.
	SubmitContact(ctx context.Context, req models.ContactRequest) error

	// Ban, Stats, Backup and ListContact require an admin key.
	Ban(ctx context.Context, req models.BanRequest) (models.BannedUser, error)
	Stats(ctx context.Context) (models.UserStats, error)
	Backup(ctx context.Context) (models.BackupResult, error)
	ListContact(ctx context.Context) ([]models.ContactMessage, error)
}
