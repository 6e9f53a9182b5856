package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sedorist/internal/models"
	"sedorist/internal/repositories"
	"sedorist/internal/services"
)

func seedTwoUsers(t *testing.T, svc *services.ItemService) (aliceItem, bobItem *models.Item) {
	t.Helper()
	ctx := context.Background()

	aliceItem = &models.Item{UserID: 1, Name: "Widget", Price: 500, Shop: "Shop A", Quantity: 2}
	assert.NoError(t, svc.Create(ctx, aliceItem))

	bobItem = &models.Item{UserID: 2, Name: "Gadget", Price: 1200, Shop: "Shop B", Quantity: 1}
	assert.NoError(t, svc.Create(ctx, bobItem))
	return aliceItem, bobItem
}

func TestItemService_TenantIsolation(t *testing.T) {
	svc := services.NewItemService(repositories.NewMockItemRepository(), nil)
	ctx := context.Background()
	aliceItem, bobItem := seedTwoUsers(t, svc)

	// Reads are scoped: Bob's item does not exist from Alice's point of
	// view, and the error never says "forbidden".
	_, err := svc.Get(1, bobItem.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err := svc.Get(1, aliceItem.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)

	// Writes are scoped the same way.
	err = svc.Update(ctx, &models.Item{ID: bobItem.ID, UserID: 1, Name: "Hijacked"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = svc.Delete(ctx, 1, bobItem.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Bob's row is untouched by any of the above.
	still, err := svc.Get(2, bobItem.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Gadget", still.Name)
	assert.Equal(t, 1200, still.Price)
}

func TestItemService_ListNewestFirst(t *testing.T) {
	svc := services.NewItemService(repositories.NewMockItemRepository(), nil)
	ctx := context.Background()

	first := &models.Item{UserID: 1, Name: "First", Price: 100}
	second := &models.Item{UserID: 1, Name: "Second", Price: 200}
	assert.NoError(t, svc.Create(ctx, first))
	assert.NoError(t, svc.Create(ctx, second))

	items, err := svc.List(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "Second", items[0].Name)
	assert.Equal(t, "First", items[1].Name)
}

func TestItemService_Update(t *testing.T) {
	svc := services.NewItemService(repositories.NewMockItemRepository(), nil)
	ctx := context.Background()

	item := &models.Item{UserID: 1, Name: "Widget", Price: 500, Quantity: 2}
	assert.NoError(t, svc.Create(ctx, item))

	item.Price = 450
	item.Memo = "price dropped"
	assert.NoError(t, svc.Update(ctx, item))

	got, err := svc.Get(1, item.ID)
	assert.NoError(t, err)
	assert.Equal(t, 450, got.Price)
	assert.Equal(t, "price dropped", got.Memo)
}

func TestItemService_ExportCSV(t *testing.T) {
	svc := services.NewItemService(repositories.NewMockItemRepository(), nil)
	seedTwoUsers(t, svc)

	data, err := svc.ExportCSV(1)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2) // header + Alice's single item
	assert.Equal(t, "id,name,price,shop,quantity,memo,created_at", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Widget")
	assert.Contains(t, lines[1], "500")
	// Bob's rows never leak into Alice's export.
	assert.NotContains(t, string(data), "Gadget")
}

func TestItemService_ExportCSV_Empty(t *testing.T) {
	svc := services.NewItemService(repositories.NewMockItemRepository(), nil)

	data, err := svc.ExportCSV(99)
	assert.NoError(t, err)
	assert.Equal(t, "id,name,price,shop,quantity,memo,created_at", strings.TrimSpace(string(data)))
}
