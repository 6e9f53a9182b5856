package repositories

import (
	"time"

	"sedorist/internal/models"
)

// SessionRepository defines the interface for login-session data access.
// Sessions are looked up by the SHA-256 digest of the client token, never by
// the raw token itself.
type SessionRepository interface {
	Create(session *models.Session) error
	GetByTokenHash(tokenHash string) (*models.Session, error)
	DeleteByTokenHash(tokenHash string) error
	DeleteExpired(now time.Time) error
	DeleteByUser(userID uint) error
}
