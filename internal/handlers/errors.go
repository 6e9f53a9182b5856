package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"sedorist/internal/models"
)

// respondError maps service errors onto HTTP responses. Validation,
// conflict and credential errors carry their message to the user; storage
// and external-service failures are logged in full and answered with a
// generic retry message.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	case errors.Is(err, models.ErrSessionInvalid):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired session",
		})
	case errors.Is(err, models.ErrResetTokenInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Reset token is invalid or has expired",
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	default:
		logrus.WithError(err).WithField("path", c.Path()).Error("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong, please try again later",
		})
	}
}

// respondValidationError renders validator.ValidationErrors as a per-field
// message map, the same shape for every form in the app.
func respondValidationError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
