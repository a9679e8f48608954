package domain

import "time"

// AuditLog records a security-relevant account event.
type AuditLog struct {
	ID        int64          `db:"id" json:"id"`
	UserID    *int64         `db:"user_id" json:"user_id"`
	Username  string         `db:"username" json:"username"`
	Action    string         `db:"action" json:"action"`
	Details   map[string]any `db:"details" json:"details,omitempty"`
	IP        string         `db:"ip" json:"ip,omitempty"`
	UserAgent string         `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Audit actions
const (
	AuditActionRegister       = "register"
	AuditActionLogin          = "login"
	AuditActionLoginFailed    = "login_failed"
	AuditActionAccountDeleted = "account_deleted"
)
