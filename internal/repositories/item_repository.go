package repositories

import "sedorist/internal/models"

// ItemRepository defines the interface for inventory data access. Every
// read and write is scoped by the owning user's ID; an item that exists but
// belongs to someone else behaves exactly like a missing one.
type ItemRepository interface {
	ListByUser(userID uint) ([]models.Item, error)
	GetByID(userID, itemID uint) (*models.Item, error)
	Create(item *models.Item) error
	Update(item *models.Item) error
	Delete(userID, itemID uint) error
}
