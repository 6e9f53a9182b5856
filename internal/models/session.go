package models

import "time"

// Session is a server-side login session. Only the SHA-256 digest of the
// client token is stored; the raw token leaves the server exactly once, in
// the login response. A session is valid while now < ExpiresAt.
type Session struct {
	ID        uint      `gorm:"primaryKey"`
	TokenHash string    `gorm:"uniqueIndex;type:varchar(64);not null"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

// Expired reports whether the session is no longer valid at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
