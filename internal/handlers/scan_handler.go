package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"sedorist/internal/models"
	"sedorist/internal/services"
)

// ScanHandler handles price-tag photo uploads.
type ScanHandler struct {
	service *services.ScanService
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(service *services.ScanService) *ScanHandler {
	return &ScanHandler{
		service: service,
	}
}

// RegisterRoutes registers the scan route. The router must already be
// behind SessionRequired.
func (h *ScanHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/scan", h.HandleScan)
}

// Price-tag photos from phone cameras run a few MB; anything bigger is
// rejected before it reaches the AI API.
const maxImageBytes = 10 << 20

// HandleScan sends the uploaded image through the vision model and returns
// the extracted name and price. AI failures are not errors from the user's
// point of view: the response carries empty form defaults and a warning so
// manual entry can proceed.
func (h *ScanHandler) HandleScan(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "An image file is required",
		})
	}
	if fileHeader.Size > maxImageBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Image too large",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil {
		return respondError(c, err)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	result, err := h.service.ExtractItem(c.Context(), image, mimeType)
	if err != nil {
		if errors.Is(err, models.ErrAIUnavailable) || errors.Is(err, models.ErrAIParse) {
			logrus.WithError(err).Warn("price tag scan failed, falling back to manual entry")
			return c.JSON(fiber.Map{
				"name":    "",
				"price":   0,
				"warning": "Could not read the price tag, please fill in the item manually",
			})
		}
		return respondError(c, err)
	}

	return c.JSON(result)
}
