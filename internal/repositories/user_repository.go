package repositories

import (
	"time"

	"sedorist/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByResetToken(token string) (*models.User, error)
	Update(user *models.User) error
	// Delete removes the user together with their items and sessions.
	Delete(id uint) error
	// PurgeExpiredResetTokens clears reset tokens whose expiry has passed.
	PurgeExpiredResetTokens(now time.Time) error
	// PurgeStaleGuests removes guest accounts created before cutoff and
	// returns how many were removed.
	PurgeStaleGuests(cutoff time.Time) (int64, error)
}
