package repositories

import (
	"time"

	"gorm.io/gorm"

	"sedorist/internal/models"
)

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{
		db: db,
	}
}

// Create inserts a new session row.
func (r *GORMSessionRepository) Create(session *models.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return translateDBError(err)
	}
	return nil
}

// GetByTokenHash retrieves a session by token digest.
func (r *GORMSessionRepository) GetByTokenHash(tokenHash string) (*models.Session, error) {
	var session models.Session
	err := r.db.First(&session, "token_hash = ?", tokenHash).Error
	if err != nil {
		return nil, translateDBError(err)
	}
	return &session, nil
}

// DeleteByTokenHash removes a session by token digest. Deleting a session
// that is already gone is not an error, so logout stays idempotent.
func (r *GORMSessionRepository) DeleteByTokenHash(tokenHash string) error {
	err := r.db.Where("token_hash = ?", tokenHash).Delete(&models.Session{}).Error
	if err != nil {
		return translateDBError(err)
	}
	return nil
}

// DeleteExpired removes every session whose expiry has passed.
func (r *GORMSessionRepository) DeleteExpired(now time.Time) error {
	err := r.db.Where("expires_at <= ?", now).Delete(&models.Session{}).Error
	if err != nil {
		return translateDBError(err)
	}
	return nil
}

// DeleteByUser removes every session owned by the user, e.g. after a
// password reset.
func (r *GORMSessionRepository) DeleteByUser(userID uint) error {
	err := r.db.Where("user_id = ?", userID).Delete(&models.Session{}).Error
	if err != nil {
		return translateDBError(err)
	}
	return nil
}
