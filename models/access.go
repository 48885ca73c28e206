// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AuthOutcome is the terminal state of the access flow.
type AuthOutcome string

const (
	OutcomeAdmitted   AuthOutcome = "admitted"
	OutcomeDenied     AuthOutcome = "denied"
	OutcomeAutoBanned AuthOutcome = "auto_banned"
)

// Denial reasons reported in [AuthResult.Reason].
const (
	ReasonBanned             = "banned"
	ReasonNotFound           = "not_found"
	ReasonDeviceLimit        = "device_limit"
	ReasonDailyLimitExceeded = "daily_limit_exceeded"
	ReasonStoreUnavailable   = "store_unavailable"
)

// AuthResult answers "can this (user, device, ip) proceed now?".
type AuthResult struct {
	OK        bool        `json:"ok"`
	Outcome   AuthOutcome `json:"outcome"`
	Reason    string      `json:"reason,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	SessionID string      `json:"session_id,omitempty"`
	Tier      TierName    `json:"tier,omitempty"`

	// Degraded is set when the store could not be reached and the result
	// was produced by the configured fail policy instead of real checks.
	Degraded bool `json:"degraded,omitempty"`
}

// ActivityOutcome is returned after an activity has been logged.
type ActivityOutcome struct {
	Outcome       AuthOutcome  `json:"outcome"`
	Reason        string       `json:"reason,omitempty"`
	Detail        string       `json:"detail,omitempty"`
	RequestsToday int          `json:"requests_today"`
	Ban           *BanDecision `json:"ban,omitempty"`
	Degraded      bool         `json:"degraded,omitempty"`
}

// QuotaStatus is the result of a daily-limit check.
type QuotaStatus struct {
	Allowed       bool     `json:"allowed"`
	RequestsToday int      `json:"requests_today"`
	DailyLimit    int      `json:"daily_limit"`
	Tier          TierName `json:"tier,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	Degraded      bool     `json:"degraded,omitempty"`
}

// BanDecision is the advisory output of an anomaly scan.
type BanDecision struct {
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// Summary joins reason and evidence, e.g.
// "Suspicious IP switching: used 4 IPs in 1 hour".
func (d BanDecision) Summary() string {
	if d.Detail == "" {
		return d.Reason
	}
	return d.Reason + ": " + d.Detail
}

// UserStats is an aggregate snapshot of the directory and activity log.
type UserStats struct {
	TotalUsers          int              `json:"total_users"`
	BannedUsers         int              `json:"banned_users"`
	TierCounts          map[TierName]int `json:"tier_counts"`
	TotalActivities     int              `json:"total_activities"`
	RecentActivities24h int              `json:"recent_activities_24h"`
}
