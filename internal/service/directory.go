// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/store"
	"github.com/MKhiriev/scrapegate/models"
)

// registrationNote is stored in the notes column of every new user.
const registrationNote = "New user registration"

// UserDirectory owns the user records and the ban list.
//
// Methods perform single read-modify-write sequences without locking; callers
// that need the sequence to be atomic per email hold the email's lock (see
// [AccessService]).
type UserDirectory struct {
	users    store.UserRepository
	bans     store.BanRepository
	activity store.ActivityRepository
	clock    Clock
}

// NewUserDirectory wires a directory to its repositories.
func NewUserDirectory(users store.UserRepository, bans store.BanRepository, activity store.ActivityRepository, clock Clock) *UserDirectory {
	return &UserDirectory{
		users:    users,
		bans:     bans,
		activity: activity,
		clock:    clock,
	}
}

// Register creates an active user with zeroed counters.
//
// Returns:
//   - ErrBanned if the email is on the ban list.
//   - ErrAlreadyExists if an active user with the email exists.
//   - ErrStoreUnavailable if the store cannot be reached.
func (d *UserDirectory) Register(ctx context.Context, email, ip, deviceID string, tier models.TierName) (models.User, error) {
	log := logger.FromContext(ctx)

	banned, err := d.bans.IsBanned(ctx, email)
	if err != nil {
		return models.User{}, mapStoreError(err)
	}
	if banned {
		log.Warn().Str("email", email).Msg("registration attempt for a banned email")
		return models.User{}, ErrBanned
	}

	now := d.clock.Now()
	user := models.User{
		Email:            email,
		RegistrationDate: now,
		Tier:             tier,
		KnownIPs:         []string{},
		LastLogin:        now,
		Status:           models.UserStatusActive,
		Notes:            registrationNote,
	}
	if ip != "" {
		user.KnownIPs = append(user.KnownIPs, ip)
	}

	if err = d.users.Create(ctx, user); err != nil {
		return models.User{}, mapStoreError(err)
	}

	log.Info().
		Str("email", email).
		Str("tier", string(tier)).
		Str("device_id", deviceID).
		Msg("user registered")
	return user, nil
}

// Lookup returns the active user and whether it exists.
func (d *UserDirectory) Lookup(ctx context.Context, email string) (models.User, bool, error) {
	user, err := d.users.Get(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, mapStoreError(err)
	}
	return user, true, nil
}

// IsBanned reports whether email is on the ban list.
func (d *UserDirectory) IsBanned(ctx context.Context, email string) (bool, error) {
	banned, err := d.bans.IsBanned(ctx, email)
	return banned, mapStoreError(err)
}

// Ban moves the active user onto the ban list and revokes every session in
// one store transaction. A second ban of the same email returns ErrNotFound
// and leaves the first record untouched.
func (d *UserDirectory) Ban(ctx context.Context, email, reason, adminNotes string) (models.BannedUser, error) {
	user, err := d.users.Get(ctx, email)
	if err != nil {
		return models.BannedUser{}, mapStoreError(err)
	}

	banned := models.NewBannedUser(user, d.clock.Now(), reason, adminNotes)
	if err = d.bans.Ban(ctx, banned); err != nil {
		return models.BannedUser{}, mapStoreError(err)
	}

	logger.FromContext(ctx).Warn().
		Str("email", email).
		Str("reason", reason).
		Int("requests_total", user.RequestsTotal).
		Msg("user banned")
	return banned, nil
}

// RecordLogin sets last_login to now, remembers ip and applies the daily
// reset rule to the stored counter.
func (d *UserDirectory) RecordLogin(ctx context.Context, email, ip string) (models.User, error) {
	user, err := d.users.Get(ctx, email)
	if err != nil {
		return models.User{}, mapStoreError(err)
	}

	now := d.clock.Now()
	user.RequestsToday = user.EffectiveRequestsToday(now)
	user.LastLogin = now
	if ip != "" && !user.HasIP(ip) {
		user.KnownIPs = append(user.KnownIPs, ip)
	}

	if err = d.users.Update(ctx, user); err != nil {
		return models.User{}, mapStoreError(err)
	}
	return user, nil
}

// IncrementRequests applies the daily reset rule and counts one request.
// The updated user is returned.
func (d *UserDirectory) IncrementRequests(ctx context.Context, email string) (models.User, error) {
	user, err := d.users.Get(ctx, email)
	if err != nil {
		return models.User{}, mapStoreError(err)
	}

	now := d.clock.Now()
	user.RequestsToday = user.EffectiveRequestsToday(now) + 1
	user.RequestsTotal++
	user.LastRequestAt = now

	if err = d.users.Update(ctx, user); err != nil {
		return models.User{}, mapStoreError(err)
	}
	return user, nil
}

// UpdateDeviceCount stores the number of live devices seen at the last
// admission.
func (d *UserDirectory) UpdateDeviceCount(ctx context.Context, email string, count int) error {
	user, err := d.users.Get(ctx, email)
	if err != nil {
		return mapStoreError(err)
	}
	if user.DeviceCount == count {
		return nil
	}
	user.DeviceCount = count
	return mapStoreError(d.users.Update(ctx, user))
}

// Stats aggregates the directory and the activity log.
func (d *UserDirectory) Stats(ctx context.Context) (models.UserStats, error) {
	users, err := d.users.List(ctx)
	if err != nil {
		return models.UserStats{}, mapStoreError(err)
	}
	banned, err := d.bans.Count(ctx)
	if err != nil {
		return models.UserStats{}, mapStoreError(err)
	}
	total, err := d.activity.Count(ctx)
	if err != nil {
		return models.UserStats{}, mapStoreError(err)
	}
	recent, err := d.activity.CountSince(ctx, d.clock.Now().Add(-24*time.Hour))
	if err != nil {
		return models.UserStats{}, mapStoreError(err)
	}

	stats := models.UserStats{
		TotalUsers:          len(users),
		BannedUsers:         banned,
		TierCounts:          make(map[models.TierName]int, 3),
		TotalActivities:     total,
		RecentActivities24h: recent,
	}
	for _, tier := range []models.TierName{models.TierFree, models.TierPro, models.TierAdvanced} {
		stats.TierCounts[tier] = 0
	}
	for _, u := range users {
		stats.TierCounts[models.ParseTierName(string(u.Tier))]++
	}
	return stats, nil
}

// appendActivity stores record, stamping it with now when it has no time.
func (d *UserDirectory) appendActivity(ctx context.Context, record models.ActivityRecord) (models.ActivityRecord, error) {
	if record.Timestamp.IsZero() {
		record.Timestamp = d.clock.Now()
	}
	if err := d.activity.Append(ctx, record); err != nil {
		return models.ActivityRecord{}, fmt.Errorf("error appending activity: %w", mapStoreError(err))
	}
	return record, nil
}
