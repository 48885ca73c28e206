package models

import "time"

// ContactMessage is a message left through the public contact form.
type ContactMessage struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ip_address,omitempty"`
}

func (c ContactMessage) TableName() string {
	return "contact"
}
