package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/store"
	"github.com/MKhiriev/scrapegate/models"
)

// SessionRegistry tracks which devices hold a live session.
//
// A session is live while now - last_activity < window. Limits are enforced
// on distinct live devices: several live sessions of one device occupy a
// single slot.
type SessionRegistry struct {
	sessions store.SessionRepository
	clock    Clock
	ids      IDGenerator
	window   time.Duration
}

// NewSessionRegistry wires a registry to its repository.
func NewSessionRegistry(sessions store.SessionRepository, clock Clock, ids IDGenerator, window time.Duration) *SessionRegistry {
	return &SessionRegistry{
		sessions: sessions,
		clock:    clock,
		ids:      ids,
		window:   window,
	}
}

// liveDevices returns the set of device IDs with at least one live session.
func (r *SessionRegistry) liveDevices(ctx context.Context, email string) (map[string]struct{}, error) {
	sessions, err := r.sessions.ListByEmail(ctx, email)
	if err != nil {
		return nil, mapStoreError(err)
	}

	now := r.clock.Now()
	devices := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		if s.IsLive(now, r.window) {
			devices[s.DeviceID] = struct{}{}
		}
	}
	return devices, nil
}

// CountLiveSessions returns the number of distinct devices of email with a
// live session.
func (r *SessionRegistry) CountLiveSessions(ctx context.Context, email string) (int, error) {
	devices, err := r.liveDevices(ctx, email)
	if err != nil {
		return 0, err
	}
	return len(devices), nil
}

// CheckDeviceAdmission reports whether deviceID may hold a session under
// tier, together with the current number of live devices. A device that is
// already live is always admitted.
func (r *SessionRegistry) CheckDeviceAdmission(ctx context.Context, email, deviceID string, tier models.Tier) (bool, int, error) {
	devices, err := r.liveDevices(ctx, email)
	if err != nil {
		return false, 0, err
	}
	if _, ok := devices[deviceID]; ok {
		return true, len(devices), nil
	}
	return len(devices) < tier.MaxConcurrentSessions, len(devices), nil
}

// CreateSession opens a new session and returns its ID.
func (r *SessionRegistry) CreateSession(ctx context.Context, email, ip, deviceID string) (string, error) {
	now := r.clock.Now()
	session := models.Session{
		Email:        email,
		SessionID:    r.ids.NewSessionID(email, deviceID),
		DeviceID:     deviceID,
		IPAddress:    ip,
		LoginTime:    now,
		LastActivity: now,
	}
	if err := r.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("error creating session: %w", mapStoreError(err))
	}

	logger.FromContext(ctx).Debug().
		Str("email", email).
		Str("device_id", deviceID).
		Str("session_id", session.SessionID).
		Msg("session created")
	return session.SessionID, nil
}

// RemoveAllSessions deletes every session of email.
func (r *SessionRegistry) RemoveAllSessions(ctx context.Context, email string) error {
	return mapStoreError(r.sessions.DeleteByEmail(ctx, email))
}

// Touch marks the sessions of (email, deviceID) as active now. An empty ip
// keeps the stored address.
func (r *SessionRegistry) Touch(ctx context.Context, email, deviceID, ip string) error {
	_, err := r.sessions.Touch(ctx, email, deviceID, ip, r.clock.Now())
	return mapStoreError(err)
}

// PurgeExpired deletes sessions that have been idle for longer than the
// liveness window and returns how many were removed.
func (r *SessionRegistry) PurgeExpired(ctx context.Context) (int, error) {
	n, err := r.sessions.PurgeExpired(ctx, r.clock.Now().Add(-r.window))
	if err != nil {
		return 0, mapStoreError(err)
	}
	return n, nil
}
