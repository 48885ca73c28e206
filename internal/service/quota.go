package service

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/scrapegate/internal/store"
	"github.com/MKhiriev/scrapegate/internal/tiers"
	"github.com/MKhiriev/scrapegate/models"
)

// QuotaTracker answers daily-limit questions. The counter is never reset by
// a timer: a stored value whose anchor lies on an earlier date reads as 0.
type QuotaTracker struct {
	users   store.UserRepository
	catalog *tiers.Catalog
	clock   Clock
}

// NewQuotaTracker wires a tracker to the user repository and plan catalog.
func NewQuotaTracker(users store.UserRepository, catalog *tiers.Catalog, clock Clock) *QuotaTracker {
	return &QuotaTracker{
		users:   users,
		catalog: catalog,
		clock:   clock,
	}
}

// Evaluate computes the quota status of user at now without touching the
// store.
func (q *QuotaTracker) Evaluate(user models.User, now time.Time) models.QuotaStatus {
	tier := q.catalog.Get(user.Tier)
	status := models.QuotaStatus{
		Allowed:       true,
		RequestsToday: user.EffectiveRequestsToday(now),
		DailyLimit:    tier.DailyRequestLimit,
		Tier:          tier.Name,
	}
	if tier.IsUnlimited() {
		return status
	}
	if status.RequestsToday >= tier.DailyRequestLimit {
		status.Allowed = false
		status.Reason = (&LimitError{
			Kind:    LimitDaily,
			Current: status.RequestsToday,
			Limit:   tier.DailyRequestLimit,
		}).Error()
	}
	return status
}

// CheckLimits loads the user and evaluates its quota. Returns ErrNotFound
// for an unknown email.
func (q *QuotaTracker) CheckLimits(ctx context.Context, email string) (models.QuotaStatus, error) {
	user, err := q.users.Get(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return models.QuotaStatus{}, ErrNotFound
	}
	if err != nil {
		return models.QuotaStatus{}, mapStoreError(err)
	}
	return q.Evaluate(user, q.clock.Now()), nil
}
