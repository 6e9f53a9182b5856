package handlers

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"sedorist/internal/middleware"
	"sedorist/internal/models"
	"sedorist/internal/services"
)

// ItemHandler handles HTTP requests for the inventory.
type ItemHandler struct {
	service  *services.ItemService
	validate *validator.Validate
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *services.ItemService) *ItemHandler {
	return &ItemHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the item routes. The router must already be
// behind SessionRequired.
func (h *ItemHandler) RegisterRoutes(router fiber.Router) {
	itemRoutes := router.Group("/items")
	itemRoutes.Get("/", h.HandleListItems)
	itemRoutes.Get("/export", h.HandleExportCSV)
	itemRoutes.Get("/:id", h.HandleGetItem)
	itemRoutes.Post("/", h.HandleCreateItem)
	itemRoutes.Put("/:id", h.HandleUpdateItem)
	itemRoutes.Delete("/:id", h.HandleDeleteItem)
}

// ItemRequest represents the item entry/edit form.
type ItemRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Price    int    `json:"price" validate:"gte=0"`
	Shop     string `json:"shop" validate:"max=100"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Memo     string `json:"memo" validate:"max=500"`
}

// HandleListItems returns the caller's inventory, newest first.
func (h *ItemHandler) HandleListItems(c *fiber.Ctx) error {
	items, err := h.service.List(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": items,
	})
}

// HandleGetItem returns one of the caller's items.
func (h *ItemHandler) HandleGetItem(c *fiber.Ctx) error {
	itemID, err := parseID(c)
	if err != nil {
		return respondError(c, models.ErrNotFound)
	}
	item, err := h.service.Get(middleware.UserID(c), itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// HandleCreateItem registers a new item for the caller.
func (h *ItemHandler) HandleCreateItem(c *fiber.Ctx) error {
	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	item := models.Item{
		UserID:   middleware.UserID(c),
		Name:     req.Name,
		Price:    req.Price,
		Shop:     req.Shop,
		Quantity: req.Quantity,
		Memo:     req.Memo,
	}
	if err := h.service.Create(c.Context(), &item); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateItem overwrites the editable fields of one of the caller's
// items. Touching someone else's item looks exactly like a missing one.
func (h *ItemHandler) HandleUpdateItem(c *fiber.Ctx) error {
	itemID, err := parseID(c)
	if err != nil {
		return respondError(c, models.ErrNotFound)
	}
	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	item := models.Item{
		ID:       itemID,
		UserID:   middleware.UserID(c),
		Name:     req.Name,
		Price:    req.Price,
		Shop:     req.Shop,
		Quantity: req.Quantity,
		Memo:     req.Memo,
	}
	if err := h.service.Update(c.Context(), &item); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Item updated",
	})
}

// HandleDeleteItem removes one of the caller's items.
func (h *ItemHandler) HandleDeleteItem(c *fiber.Ctx) error {
	itemID, err := parseID(c)
	if err != nil {
		return respondError(c, models.ErrNotFound)
	}
	if err := h.service.Delete(c.Context(), middleware.UserID(c), itemID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Item deleted",
	})
}

// HandleExportCSV streams the caller's inventory as a CSV download.
func (h *ItemHandler) HandleExportCSV(c *fiber.Ctx) error {
	data, err := h.service.ExportCSV(middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	filename := "inventory_" + time.Now().Format("20060102") + ".csv"
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
