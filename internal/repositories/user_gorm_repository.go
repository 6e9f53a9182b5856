package repositories

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sedorist/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user. Duplicate username or email surfaces as
// models.ErrConflict.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return translateDBError(err)
	}
	return nil
}

// GetByID retrieves a user by their ID.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &user, nil
}

// GetByResetToken retrieves the user holding the given reset token. Expiry
// is checked by the caller.
func (r *GORMUserRepository) GetByResetToken(token string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "reset_token = ?", token).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &user, nil
}

// Update saves all fields of the user row, including nil reset-token fields.
func (r *GORMUserRepository) Update(user *models.User) error {
	if err := r.db.Model(user).Select("username", "email", "password_hash",
		"reset_token", "reset_token_expires_at").Updates(user).Error; err != nil {
		return translateDBError(err)
	}
	return nil
}

// Delete removes the user and, through the association, their items and
// sessions. Using Select(clause.Associations) keeps the cascade working on
// drivers where foreign keys are off by default (in-memory SQLite in tests).
func (r *GORMUserRepository) Delete(id uint) error {
	user := models.User{ID: id}
	result := r.db.Select(clause.Associations).Delete(&user)
	if result.Error != nil {
		return translateDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// PurgeExpiredResetTokens clears reset tokens whose expiry has passed.
func (r *GORMUserRepository) PurgeExpiredResetTokens(now time.Time) error {
	err := r.db.Model(&models.User{}).
		Where("reset_token_expires_at < ?", now).
		Updates(map[string]interface{}{
			"reset_token":            nil,
			"reset_token_expires_at": nil,
		}).Error
	if err != nil {
		return translateDBError(err)
	}
	return nil
}

// PurgeStaleGuests deletes guest accounts created before cutoff, including
// their items and sessions.
func (r *GORMUserRepository) PurgeStaleGuests(cutoff time.Time) (int64, error) {
	var guests []models.User
	err := r.db.
		Where("email LIKE ?", "guest_%@example.com").
		Where("created_at < ?", cutoff).
		Find(&guests).Error
	if err != nil {
		return 0, translateDBError(err)
	}

	var removed int64
	for i := range guests {
		if err := r.Delete(guests[i].ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
