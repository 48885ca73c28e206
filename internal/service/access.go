// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/locker"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/internal/metrics"
	"github.com/MKhiriev/scrapegate/internal/store"
	"github.com/MKhiriev/scrapegate/internal/tiers"
	"github.com/MKhiriev/scrapegate/models"
)

// autoBanNote is stored as admin notes of bans issued by the anomaly rules.
const autoBanNote = "Automatic ban by activity monitor"

// Core groups the components the access flow is composed of.
type Core struct {
	Directory *UserDirectory
	Sessions  *SessionRegistry
	Quota     *QuotaTracker
	Anomaly   *AnomalyDetector
	Catalog   *tiers.Catalog
	Clock     Clock
}

// NewCore builds every component over the same storages and clock.
func NewCore(storages *store.Storages, catalog *tiers.Catalog, policy config.Policy, clock Clock, ids IDGenerator) Core {
	return Core{
		Directory: NewUserDirectory(storages.Users, storages.Bans, storages.Activity, clock),
		Sessions:  NewSessionRegistry(storages.Sessions, clock, ids, policy.LivenessWindow),
		Quota:     NewQuotaTracker(storages.Users, catalog, clock),
		Anomaly:   NewAnomalyDetector(storages.Users, storages.Activity, clock, policy),
		Catalog:   catalog,
		Clock:     clock,
	}
}

// accessService is the concrete implementation of AccessService.
//
// The flow of Authenticate is
//
//	Start -> CheckBanned -> CheckExists -> CheckDeviceLimit -> CheckQuota -> Admit
//
// and every step before Admit is read-only, so a denial never mutates state.
// LogActivity continues with append, count, touch and the anomaly scan,
// which may end in an automatic ban.
type accessService struct {
	Core

	// locker serializes the read-modify-write sequences of one email.
	locker locker.Locker

	// timeout bounds every operation; running out of it counts as the
	// store being unavailable.
	timeout time.Duration

	// failPolicy decides what callers get while the store is unavailable.
	failPolicy string

	metrics *metrics.Metrics
}

// NewAccessService wires the access flow. A nil metrics records nothing.
func NewAccessService(core Core, lock locker.Locker, cfg config.App, m *metrics.Metrics) AccessService {
	return &accessService{
		Core:       core,
		locker:     lock,
		timeout:    cfg.StoreTimeout,
		failPolicy: cfg.FailPolicy,
		metrics:    m,
	}
}

// withUser runs fn holding the lock of email under the store deadline.
// Store and lock failures come back as ErrStoreUnavailable.
func (s *accessService) withUser(ctx context.Context, email string, fn func(ctx context.Context) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	unlock, err := s.locker.Lock(ctx, email)
	if err != nil {
		return mapStoreError(err)
	}
	defer unlock()

	return mapStoreError(fn(ctx))
}

func (s *accessService) failOpen() bool {
	return s.failPolicy != config.FailClosed
}

func (s *accessService) Register(ctx context.Context, email, ip, deviceID string, tier models.TierName) (models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return models.User{}, ErrInvalidDataProvided
	}
	tier = models.ParseTierName(string(tier))

	var user models.User
	err := s.withUser(ctx, email, func(ctx context.Context) error {
		var err error
		user, err = s.Directory.Register(ctx, email, ip, deviceID, tier)
		return err
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("email", email).Msg("registration failed")
		return models.User{}, err
	}
	return user, nil
}

func (s *accessService) Authenticate(ctx context.Context, email, ip, deviceID string) (models.AuthResult, error) {
	defer s.metrics.ObserveSince("authenticate", time.Now())

	email = models.NormalizeEmail(email)
	if email == "" || deviceID == "" {
		return models.AuthResult{}, ErrInvalidDataProvided
	}
	log := logger.FromContext(ctx).WithEmail(email)

	var result models.AuthResult
	err := s.withUser(ctx, email, func(ctx context.Context) error {
		var err error
		result, err = s.authenticate(ctx, email, ip, deviceID)
		return err
	})
	switch {
	case errors.Is(err, ErrStoreUnavailable):
		log.Err(err).Str("policy", s.failPolicy).Msg("store unavailable, applying fail policy to authentication")
		s.metrics.Degraded("authenticate", s.failPolicy)
		result = s.degradedAuth()
	case err != nil:
		log.Err(err).Msg("authentication ended with error")
		return models.AuthResult{}, err
	}

	s.metrics.AuthOutcome(string(result.Outcome), result.Reason)
	log.Info().
		Str("device_id", deviceID).
		Str("ip", ip).
		Str("outcome", string(result.Outcome)).
		Str("reason", result.Reason).
		Bool("degraded", result.Degraded).
		Msg("authentication decided")
	return result, nil
}

func (s *accessService) authenticate(ctx context.Context, email, ip, deviceID string) (models.AuthResult, error) {
	banned, err := s.Directory.IsBanned(ctx, email)
	if err != nil {
		return models.AuthResult{}, err
	}
	if banned {
		return deny(models.ReasonBanned, "", ""), nil
	}

	user, ok, err := s.Directory.Lookup(ctx, email)
	if err != nil {
		return models.AuthResult{}, err
	}
	if !ok {
		return deny(models.ReasonNotFound, "", ""), nil
	}

	tier := s.Catalog.Get(user.Tier)
	admitted, live, err := s.Sessions.CheckDeviceAdmission(ctx, email, deviceID, tier)
	if err != nil {
		return models.AuthResult{}, err
	}
	if !admitted {
		limit := &LimitError{Kind: LimitDevices, Current: live, Limit: tier.MaxConcurrentSessions}
		return deny(models.ReasonDeviceLimit, limit.Error(), tier.Name), nil
	}

	quota := s.Quota.Evaluate(user, s.Clock.Now())
	if !quota.Allowed {
		return deny(models.ReasonDailyLimitExceeded, quota.Reason, tier.Name), nil
	}

	if _, err = s.Directory.RecordLogin(ctx, email, ip); err != nil {
		return models.AuthResult{}, err
	}
	sessionID, err := s.Sessions.CreateSession(ctx, email, ip, deviceID)
	if err != nil {
		return models.AuthResult{}, err
	}
	if live, err = s.Sessions.CountLiveSessions(ctx, email); err != nil {
		return models.AuthResult{}, err
	}
	if err = s.Directory.UpdateDeviceCount(ctx, email, live); err != nil {
		return models.AuthResult{}, err
	}

	return models.AuthResult{
		OK:        true,
		Outcome:   models.OutcomeAdmitted,
		SessionID: sessionID,
		Tier:      tier.Name,
	}, nil
}

func deny(reason, detail string, tier models.TierName) models.AuthResult {
	return models.AuthResult{
		Outcome: models.OutcomeDenied,
		Reason:  reason,
		Detail:  detail,
		Tier:    tier,
	}
}

func (s *accessService) degradedAuth() models.AuthResult {
	if s.failOpen() {
		return models.AuthResult{
			OK:       true,
			Outcome:  models.OutcomeAdmitted,
			Detail:   "admitted without checks: store unavailable",
			Degraded: true,
		}
	}
	return models.AuthResult{
		Outcome:  models.OutcomeDenied,
		Reason:   models.ReasonStoreUnavailable,
		Degraded: true,
	}
}

func (s *accessService) LogActivity(ctx context.Context, record models.ActivityRecord) (models.ActivityOutcome, error) {
	defer s.metrics.ObserveSince("log_activity", time.Now())

	record.Email = models.NormalizeEmail(record.Email)
	if record.Email == "" || !record.Result.Valid() {
		return models.ActivityOutcome{}, ErrInvalidDataProvided
	}
	log := logger.FromContext(ctx).WithEmail(record.Email)

	var outcome models.ActivityOutcome
	err := s.withUser(ctx, record.Email, func(ctx context.Context) error {
		var err error
		outcome, err = s.logActivity(ctx, record)
		return err
	})
	switch {
	case errors.Is(err, ErrStoreUnavailable):
		log.Err(err).Str("policy", s.failPolicy).Msg("store unavailable, applying fail policy to activity")
		s.metrics.Degraded("log_activity", s.failPolicy)
		outcome = s.degradedActivity()
	case err != nil:
		log.Err(err).Str("result", string(record.Result)).Msg("activity rejected")
		return models.ActivityOutcome{}, err
	}

	s.metrics.Activity(string(record.Result), string(outcome.Outcome))
	return outcome, nil
}

func (s *accessService) logActivity(ctx context.Context, record models.ActivityRecord) (models.ActivityOutcome, error) {
	email := record.Email

	banned, err := s.Directory.IsBanned(ctx, email)
	if err != nil {
		return models.ActivityOutcome{}, err
	}
	if banned {
		return models.ActivityOutcome{}, ErrBanned
	}

	user, ok, err := s.Directory.Lookup(ctx, email)
	if err != nil {
		return models.ActivityOutcome{}, err
	}
	if !ok {
		return models.ActivityOutcome{}, ErrNotFound
	}

	// A token outlives the liveness window. A device whose session lapsed
	// must win a free slot again before its activity counts as live.
	if record.DeviceID != "" {
		tier := s.Catalog.Get(user.Tier)
		admitted, live, err := s.Sessions.CheckDeviceAdmission(ctx, email, record.DeviceID, tier)
		if err != nil {
			return models.ActivityOutcome{}, err
		}
		if !admitted {
			limit := &LimitError{Kind: LimitDevices, Current: live, Limit: tier.MaxConcurrentSessions}
			return models.ActivityOutcome{
				Outcome:       models.OutcomeDenied,
				Reason:        models.ReasonDeviceLimit,
				Detail:        limit.Error(),
				RequestsToday: user.EffectiveRequestsToday(s.Clock.Now()),
			}, nil
		}
	}

	if record, err = s.Directory.appendActivity(ctx, record); err != nil {
		return models.ActivityOutcome{}, err
	}
	if record.Result.Counted() {
		if user, err = s.Directory.IncrementRequests(ctx, email); err != nil {
			return models.ActivityOutcome{}, err
		}
	}
	if record.DeviceID != "" {
		if err = s.Sessions.Touch(ctx, email, record.DeviceID, record.IPAddress); err != nil {
			return models.ActivityOutcome{}, err
		}
	}

	outcome := models.ActivityOutcome{
		Outcome:       models.OutcomeAdmitted,
		RequestsToday: user.EffectiveRequestsToday(s.Clock.Now()),
	}

	decision, err := s.Anomaly.scan(ctx, user)
	if err != nil {
		return models.ActivityOutcome{}, err
	}
	if decision == nil {
		return outcome, nil
	}

	if _, err = s.Directory.Ban(ctx, email, decision.Summary(), autoBanNote); err != nil {
		return models.ActivityOutcome{}, err
	}
	s.metrics.Ban(metrics.BanSourceAuto)

	outcome.Outcome = models.OutcomeAutoBanned
	outcome.Reason = decision.Reason
	outcome.Ban = decision
	return outcome, nil
}

func (s *accessService) degradedActivity() models.ActivityOutcome {
	if s.failOpen() {
		return models.ActivityOutcome{
			Outcome:  models.OutcomeAdmitted,
			Degraded: true,
		}
	}
	return models.ActivityOutcome{
		Outcome:  models.OutcomeDenied,
		Reason:   models.ReasonStoreUnavailable,
		Degraded: true,
	}
}

func (s *accessService) CheckLimits(ctx context.Context, email string) (models.QuotaStatus, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return models.QuotaStatus{}, ErrInvalidDataProvided
	}

	var status models.QuotaStatus
	err := s.withUser(ctx, email, func(ctx context.Context) error {
		banned, err := s.Directory.IsBanned(ctx, email)
		if err != nil {
			return err
		}
		if banned {
			return ErrBanned
		}
		status, err = s.Quota.CheckLimits(ctx, email)
		return err
	})
	switch {
	case errors.Is(err, ErrStoreUnavailable):
		logger.FromContext(ctx).Err(err).
			Str("email", email).
			Str("policy", s.failPolicy).
			Msg("store unavailable, applying fail policy to limit check")
		s.metrics.Degraded("check_limits", s.failPolicy)
		status = models.QuotaStatus{Allowed: s.failOpen(), Degraded: true}
		if !status.Allowed {
			status.Reason = models.ReasonStoreUnavailable
		}
	case err != nil:
		return models.QuotaStatus{}, err
	}
	return status, nil
}

func (s *accessService) Ban(ctx context.Context, email, reason, adminNotes string) (models.BannedUser, error) {
	email = models.NormalizeEmail(email)
	if email == "" || reason == "" {
		return models.BannedUser{}, ErrInvalidDataProvided
	}

	var banned models.BannedUser
	err := s.withUser(ctx, email, func(ctx context.Context) error {
		var err error
		banned, err = s.Directory.Ban(ctx, email, reason, adminNotes)
		return err
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("email", email).Msg("ban failed")
		return models.BannedUser{}, err
	}

	s.metrics.Ban(metrics.BanSourceAdmin)
	return banned, nil
}

func (s *accessService) GetUserStats(ctx context.Context) (models.UserStats, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	stats, err := s.Directory.Stats(ctx)
	if err != nil {
		return models.UserStats{}, mapStoreError(err)
	}
	return stats, nil
}
