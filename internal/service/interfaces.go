package service

import (
	"context"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service.go -package=mock

// AccessService is the caller-facing API of the access core. Every method
// that touches one user's record runs under that email's lock and a
// store deadline.
type AccessService interface {
	// Register creates a user on tier. Returns ErrBanned or
	// ErrAlreadyExists when the email cannot be registered.
	Register(ctx context.Context, email, ip, deviceID string, tier models.TierName) (models.User, error)

	// Authenticate decides whether (email, deviceID, ip) may proceed now
	// and opens a session when it may. Denials are reported in the result,
	// not as errors.
	Authenticate(ctx context.Context, email, ip, deviceID string) (models.AuthResult, error)

	// LogActivity records one finished action, counts it against the
	// daily quota and runs the anomaly scan.
	LogActivity(ctx context.Context, record models.ActivityRecord) (models.ActivityOutcome, error)

	// CheckLimits reports the daily quota of email.
	CheckLimits(ctx context.Context, email string) (models.QuotaStatus, error)

	// Ban moves email to the ban list and revokes its sessions.
	Ban(ctx context.Context, email, reason, adminNotes string) (models.BannedUser, error)

	// GetUserStats aggregates users, bans and activity.
	GetUserStats(ctx context.Context) (models.UserStats, error)
}

// TokenService issues and verifies session bearer tokens.
type TokenService interface {
	CreateToken(ctx context.Context, email, sessionID, deviceID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// BackupService archives the activity log and clears the archived rows.
type BackupService interface {
	Enabled() bool
	Backup(ctx context.Context) (models.BackupResult, error)
}

// ContactService stores and lists contact-form messages.
type ContactService interface {
	Submit(ctx context.Context, msg models.ContactMessage) error
	List(ctx context.Context) ([]models.ContactMessage, error)
}

// SessionService runs maintenance over the session table.
type SessionService interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// AppInfoService reports build and deployment information.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetCapabilities(ctx context.Context) config.Capabilities
}

// HealthService reports whether the backing store is reachable.
type HealthService interface {
	Ping(ctx context.Context) error
}
