package models

import (
	"strings"
	"time"
)

// UserStatus is the lifecycle state of a user record.
type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)

// User is the identity record owned by the user directory. The email is the
// unique key; every other table refers back to a user by email only.
type User struct {
	Email            string     `json:"email"`
	RegistrationDate time.Time  `json:"registration_date"`
	Tier             TierName   `json:"tier"`
	KnownIPs         []string   `json:"known_ips"`
	LastLogin        time.Time  `json:"last_login"`
	RequestsToday    int        `json:"requests_today"`
	RequestsTotal    int        `json:"requests_total"`
	DeviceCount      int        `json:"device_count"`
	Status           UserStatus `json:"status"`
	Notes            string     `json:"notes,omitempty"`

	// LastRequestAt is the time of the last request counted against the
	// daily quota. Zero until the first counted request.
	LastRequestAt time.Time `json:"last_request_at,omitzero"`
}

// CounterAnchor returns the timestamp the daily counter belongs to: the later
// of LastLogin and LastRequestAt.
func (u User) CounterAnchor() time.Time {
	if u.LastRequestAt.After(u.LastLogin) {
		return u.LastRequestAt
	}
	return u.LastLogin
}

// EffectiveRequestsToday returns RequestsToday as seen at now: zero when the
// counter anchor falls on a different calendar day than now.
func (u User) EffectiveRequestsToday(now time.Time) int {
	if !SameDay(u.CounterAnchor(), now) {
		return 0
	}
	return u.RequestsToday
}

// HasIP reports whether ip is already among the user's known addresses.
func (u User) HasIP(ip string) bool {
	for _, known := range u.KnownIPs {
		if known == ip {
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameDay reports whether a and b fall on the same calendar date in b's
// location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
