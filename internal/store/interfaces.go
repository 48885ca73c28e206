package store

import (
	"context"
	"time"

	"github.com/MKhiriev/scrapegate/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store.go -package=mock

// UserRepository stores active users keyed by email.
type UserRepository interface {
	// Create inserts a new user. Returns [ErrUserAlreadyExists] when the
	// email is taken.
	Create(ctx context.Context, user models.User) error
	// Get returns the user or [ErrUserNotFound].
	Get(ctx context.Context, email string) (models.User, error)
	// Update overwrites the mutable fields of an existing user. Returns
	// [ErrUserNotFound] when no row matches.
	Update(ctx context.Context, user models.User) error
	// List returns all active users ordered by email.
	List(ctx context.Context) ([]models.User, error)
}

// BanRepository stores the permanent ban list.
type BanRepository interface {
	IsBanned(ctx context.Context, email string) (bool, error)
	// Ban atomically inserts the banned record, deletes the active user and
	// deletes every session of that email. Returns [ErrUserNotFound] when
	// there is no active user to ban and [ErrAlreadyBanned] when the email
	// is already on the list. Nothing is changed on error.
	Ban(ctx context.Context, banned models.BannedUser) error
	Get(ctx context.Context, email string) (models.BannedUser, error)
	Count(ctx context.Context) (int, error)
}

// SessionRepository stores device sessions.
type SessionRepository interface {
	Create(ctx context.Context, session models.Session) error
	ListByEmail(ctx context.Context, email string) ([]models.Session, error)
	// Touch sets last_activity (and ip) of every session of email bound to
	// deviceID. Returns the number of sessions updated.
	Touch(ctx context.Context, email, deviceID, ip string, at time.Time) (int, error)
	DeleteByEmail(ctx context.Context, email string) error
	// PurgeExpired deletes sessions whose last activity is before cutoff.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int, error)
}

// ActivityRepository is the append-only activity log.
type ActivityRepository interface {
	Append(ctx context.Context, record models.ActivityRecord) error
	// ListSince returns the records of email with timestamp > since,
	// oldest first.
	ListSince(ctx context.Context, email string, since time.Time) ([]models.ActivityRecord, error)
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	// ListUntil returns every record with timestamp <= until, oldest first.
	ListUntil(ctx context.Context, until time.Time) ([]models.ActivityRecord, error)
	// DeleteUntil removes every record with timestamp <= until.
	DeleteUntil(ctx context.Context, until time.Time) (int, error)
}

// ContactRepository stores messages from the contact form.
type ContactRepository interface {
	Append(ctx context.Context, msg models.ContactMessage) error
	List(ctx context.Context) ([]models.ContactMessage, error)
}
