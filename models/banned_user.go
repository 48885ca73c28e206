package models

import "time"

// BannedUser is the terminal record written once per ban event. Its presence
// makes the email permanently unavailable for registration.
type BannedUser struct {
	Email                    string    `json:"email"`
	OriginalRegistrationDate time.Time `json:"original_registration_date"`
	BanDate                  time.Time `json:"ban_date"`
	Reason                   string    `json:"reason"`
	KnownIPs                 []string  `json:"known_ips"`
	RequestsTotalAtBan       int       `json:"requests_total_at_ban"`
	AdminNotes               string    `json:"admin_notes,omitempty"`
}

// NewBannedUser converts an active user into its banned form.
func NewBannedUser(u User, at time.Time, reason, adminNotes string) BannedUser {
	return BannedUser{
		Email:                    u.Email,
		OriginalRegistrationDate: u.RegistrationDate,
		BanDate:                  at,
		Reason:                   reason,
		KnownIPs:                 append([]string(nil), u.KnownIPs...),
		RequestsTotalAtBan:       u.RequestsTotal,
		AdminNotes:               adminNotes,
	}
}

func (b BannedUser) TableName() string {
	return "banned_users"
}
