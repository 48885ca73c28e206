package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/store"
	"github.com/MKhiriev/scrapegate/models"
)

// Ban reasons produced by the anomaly rules.
const (
	BanReasonIPSwitching       = "Suspicious IP switching"
	BanReasonExcessiveRequests = "Excessive requests"
)

// AnomalyDetector classifies a user's recent activity. It only advises: the
// ban itself is executed by the caller.
type AnomalyDetector struct {
	users    store.UserRepository
	activity store.ActivityRepository
	clock    Clock

	window          time.Duration
	maxIPs          int
	maxFreeRequests int
}

// NewAnomalyDetector builds a detector with the thresholds of cfg.
func NewAnomalyDetector(users store.UserRepository, activity store.ActivityRepository, clock Clock, cfg config.Policy) *AnomalyDetector {
	return &AnomalyDetector{
		users:           users,
		activity:        activity,
		clock:           clock,
		window:          cfg.AnomalyWindow,
		maxIPs:          cfg.MaxIPsPerWindow,
		maxFreeRequests: cfg.MaxFreeRequestsPerWindow,
	}
}

// Scan applies the rules to records of user within the trailing window
// (now-window, now]. Records outside the window are ignored. The first matching
// rule wins:
//
//  1. more than maxIPs distinct IP addresses;
//  2. a Free user with more than maxFreeRequests records.
func (a *AnomalyDetector) Scan(user models.User, records []models.ActivityRecord, now time.Time) *models.BanDecision {
	since := now.Add(-a.window)

	ips := make(map[string]struct{})
	count := 0
	for _, r := range records {
		if !r.Timestamp.After(since) || r.Timestamp.After(now) {
			continue
		}
		count++
		if r.IPAddress != "" {
			ips[r.IPAddress] = struct{}{}
		}
	}

	if len(ips) > a.maxIPs {
		return &models.BanDecision{
			Reason: BanReasonIPSwitching,
			Detail: fmt.Sprintf("used %d IPs in %s", len(ips), formatWindow(a.window)),
		}
	}
	if models.ParseTierName(string(user.Tier)) == models.TierFree && count > a.maxFreeRequests {
		return &models.BanDecision{
			Reason: BanReasonExcessiveRequests,
			Detail: fmt.Sprintf("%d requests in %s", count, formatWindow(a.window)),
		}
	}
	return nil
}

// ScanUser loads the user and its trailing-window activity and scans it.
func (a *AnomalyDetector) ScanUser(ctx context.Context, email string) (*models.BanDecision, error) {
	user, err := a.users.Get(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, mapStoreError(err)
	}
	return a.scan(ctx, user)
}

func (a *AnomalyDetector) scan(ctx context.Context, user models.User) (*models.BanDecision, error) {
	now := a.clock.Now()
	records, err := a.activity.ListSince(ctx, user.Email, now.Add(-a.window))
	if err != nil {
		return nil, mapStoreError(err)
	}
	return a.Scan(user, records, now), nil
}

// formatWindow renders d the way ban details spell it: "1 hour",
// "2 hours", "30 minutes".
func formatWindow(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d > 0 && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d == time.Minute:
		return "1 minute"
	case d > 0 && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	}
	return d.String()
}
