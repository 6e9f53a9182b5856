package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"sedorist/internal/models"
	"sedorist/internal/repositories"
	"sedorist/pkg/cache"
)

// ItemService handles inventory business logic. The list view is the hot
// path of the app, so it is served from a short-lived per-user cache when
// Redis is configured; every write drops that user's cache entry.
type ItemService struct {
	repo  repositories.ItemRepository
	cache *cache.Cache
}

const itemListCacheTTL = 60 * time.Second

// NewItemService creates a new ItemService. cache may be nil.
func NewItemService(repo repositories.ItemRepository, c *cache.Cache) *ItemService {
	return &ItemService{
		repo:  repo,
		cache: c,
	}
}

func itemListCacheKey(userID uint) string {
	return fmt.Sprintf("items:%d", userID)
}

// List returns the user's items, newest first.
func (s *ItemService) List(ctx context.Context, userID uint) ([]models.Item, error) {
	key := itemListCacheKey(userID)

	var cached []models.Item
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logrus.WithError(err).Warn("item list cache read failed")
	} else if hit {
		return cached, nil
	}

	items, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, items, itemListCacheTTL); err != nil {
		logrus.WithError(err).Warn("item list cache write failed")
	}
	return items, nil
}

// Get returns one item, scoped by owner.
func (s *ItemService) Get(userID, itemID uint) (*models.Item, error) {
	return s.repo.GetByID(userID, itemID)
}

// Create registers a new item for the user.
func (s *ItemService) Create(ctx context.Context, item *models.Item) error {
	if err := s.repo.Create(item); err != nil {
		return err
	}
	s.invalidate(ctx, item.UserID)
	return nil
}

// Update overwrites the editable fields of an item, scoped by owner.
func (s *ItemService) Update(ctx context.Context, item *models.Item) error {
	if err := s.repo.Update(item); err != nil {
		return err
	}
	s.invalidate(ctx, item.UserID)
	return nil
}

// Delete removes an item, scoped by owner.
func (s *ItemService) Delete(ctx context.Context, userID, itemID uint) error {
	if err := s.repo.Delete(userID, itemID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *ItemService) invalidate(ctx context.Context, userID uint) {
	if err := s.cache.Delete(ctx, itemListCacheKey(userID)); err != nil {
		logrus.WithError(err).Warn("item list cache invalidation failed")
	}
}

// ExportCSV renders the user's full inventory as CSV with a header row.
func (s *ItemService) ExportCSV(userID uint) ([]byte, error) {
	items, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "name", "price", "shop", "quantity", "memo", "created_at"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, item := range items {
		record := []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.Name,
			strconv.Itoa(item.Price),
			item.Shop,
			strconv.Itoa(item.Quantity),
			item.Memo,
			item.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
