package models

import "time"

// ActivityResult is the outcome of one logged action.
type ActivityResult string

const (
	ActivitySuccess ActivityResult = "success"
	ActivityFailure ActivityResult = "failure"
	ActivityDenied  ActivityResult = "denied"
)

// Valid reports whether r is one of the known results.
func (r ActivityResult) Valid() bool {
	switch r {
	case ActivitySuccess, ActivityFailure, ActivityDenied:
		return true
	}
	return false
}

// Counted reports whether an activity with this result consumes daily quota.
// Denied actions never reached the scraper and are not counted.
func (r ActivityResult) Counted() bool {
	return r == ActivitySuccess || r == ActivityFailure
}

// ActivityRecord is one append-only entry of the activity log.
type ActivityRecord struct {
	Timestamp time.Time      `json:"timestamp"`
	Email     string         `json:"email"`
	IPAddress string         `json:"ip_address"`
	Platform  string         `json:"platform"`
	Topic     string         `json:"topic"`
	Result    ActivityResult `json:"result"`
	Reason    string         `json:"reason,omitempty"`
	DeviceID  string         `json:"device_id,omitempty"`
}

func (a ActivityRecord) TableName() string {
	return "activity"
}
