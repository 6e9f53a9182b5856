package repositories

import (
	"sort"
	"sync"

	"sedorist/internal/models"
)

// MockItemRepository is an in-memory implementation of ItemRepository,
// useful for service tests that do not need a database.
type MockItemRepository struct {
	items  map[uint]models.Item
	nextID uint
	mu     sync.RWMutex
}

// NewMockItemRepository creates a new instance of MockItemRepository.
func NewMockItemRepository() *MockItemRepository {
	return &MockItemRepository{
		items:  make(map[uint]models.Item),
		nextID: 1,
	}
}

// ListByUser returns the user's items, newest first.
func (r *MockItemRepository) ListByUser(userID uint) ([]models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Item, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			list = append(list, item)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

// GetByID returns the item only if it belongs to the user.
func (r *MockItemRepository) GetByID(userID, itemID uint) (*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok || item.UserID != userID {
		return nil, models.ErrNotFound
	}
	return &item, nil
}

// Create adds a new item and assigns it an ID.
func (r *MockItemRepository) Create(item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == 0 {
		item.ID = r.nextID
		r.nextID++
	} else if item.ID >= r.nextID {
		r.nextID = item.ID + 1
	}
	r.items[item.ID] = *item
	return nil
}

// Update overwrites an existing item, scoped by owner.
func (r *MockItemRepository) Update(item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok || existing.UserID != item.UserID {
		return models.ErrNotFound
	}
	item.CreatedAt = existing.CreatedAt
	r.items[item.ID] = *item
	return nil
}

// Delete removes an item, scoped by owner.
func (r *MockItemRepository) Delete(userID, itemID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok || item.UserID != userID {
		return models.ErrNotFound
	}
	delete(r.items, itemID)
	return nil
}
