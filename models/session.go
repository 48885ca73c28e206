package models

import "time"

// Session is a live device/IP binding for a user.
type Session struct {
	Email        string    `json:"email"`
	SessionID    string    `json:"session_id"`
	DeviceID     string    `json:"device_id"`
	IPAddress    string    `json:"ip_address"`
	LoginTime    time.Time `json:"login_time"`
	LastActivity time.Time `json:"last_activity"`
}

// IsLive reports whether the session's last activity is within window of now.
func (s Session) IsLive(now time.Time, window time.Duration) bool {
	return now.Sub(s.LastActivity) < window
}

func (s Session) TableName() string {
	return "active_sessions"
}
