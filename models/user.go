package models

import "time"

// User is an authenticated account. Its ID is the remote identity keying the
// cloud-mirrored document.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastLoginAt  time.Time `json:"last_login_at,omitempty"`
}

// AnalyticsEvent is one append-only usage record written on every successful
// remote sync and read back only by the admin view.
type AnalyticsEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	UserAgent string    `json:"userAgent"`
}
