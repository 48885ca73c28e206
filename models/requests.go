package models

// RegisterRequest is the body of POST /api/user/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	IP       string `json:"ip" validate:"omitempty,ip"`
	DeviceID string `json:"device_id" validate:"required,max=128"`
	Tier     string `json:"tier" validate:"omitempty,oneof=free pro advanced"`
}

// AuthenticateRequest is the body of POST /api/auth/authenticate.
type AuthenticateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	IP       string `json:"ip" validate:"omitempty,ip"`
	DeviceID string `json:"device_id" validate:"required,max=128"`
}

// ActivityRequest is the body of POST /api/activity. The email and device
// come from the bearer token.
type ActivityRequest struct {
	IP       string         `json:"ip" validate:"omitempty,ip"`
	Platform string         `json:"platform" validate:"required,notblank,max=64"`
	Topic    string         `json:"topic" validate:"max=512"`
	Result   ActivityResult `json:"result" validate:"required,oneof=success failure denied"`
	Reason   string         `json:"reason" validate:"max=512"`
}

// BanRequest is the body of POST /api/admin/ban.
type BanRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Reason     string `json:"reason" validate:"required,notblank,max=256"`
	AdminNotes string `json:"admin_notes" validate:"max=1024"`
}

// ContactRequest is the body of POST /api/contact.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,notblank,max=128"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=32"`
	Message string `json:"message" validate:"required,notblank,max=4096"`
}

// BackupResult describes one archived activity export.
type BackupResult struct {
	ObjectName string `json:"object_name"`
	Records    int    `json:"records"`
	Cleared    bool   `json:"cleared"`
}
