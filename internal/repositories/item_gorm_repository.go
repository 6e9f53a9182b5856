package repositories

import (
	"gorm.io/gorm"

	"sedorist/internal/models"
)

// GORMItemRepository is a GORM implementation of ItemRepository.
type GORMItemRepository struct {
	db *gorm.DB
}

// NewGORMItemRepository creates a new instance of GORMItemRepository.
func NewGORMItemRepository(db *gorm.DB) *GORMItemRepository {
	return &GORMItemRepository{
		db: db,
	}
}

// ListByUser returns all items owned by the user, newest first.
func (r *GORMItemRepository) ListByUser(userID uint) ([]models.Item, error) {
	var items []models.Item
	err := r.db.Where("user_id = ?", userID).Order("id DESC").Find(&items).Error
	if err != nil {
		return nil, translateDBError(err)
	}
	return items, nil
}

// GetByID returns the item only if it belongs to the user.
func (r *GORMItemRepository) GetByID(userID, itemID uint) (*models.Item, error) {
	var item models.Item
	err := r.db.First(&item, "id = ? AND user_id = ?", itemID, userID).Error
	if err != nil {
		return nil, translateDBError(err)
	}
	return &item, nil
}

// Create inserts a new item for item.UserID.
func (r *GORMItemRepository) Create(item *models.Item) error {
	if err := r.db.Create(item).Error; err != nil {
		return translateDBError(err)
	}
	return nil
}

// Update overwrites the editable fields of the item, scoped by owner.
// Updating an item that does not exist (or belongs to another user) returns
// models.ErrNotFound.
func (r *GORMItemRepository) Update(item *models.Item) error {
	result := r.db.Model(&models.Item{}).
		Where("id = ? AND user_id = ?", item.ID, item.UserID).
		Select("name", "price", "shop", "quantity", "memo").
		Updates(item)
	if result.Error != nil {
		return translateDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes the item, scoped by owner.
func (r *GORMItemRepository) Delete(userID, itemID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.Item{})
	if result.Error != nil {
		return translateDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
