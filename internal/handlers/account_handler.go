package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"sedorist/internal/middleware"
	"sedorist/internal/services"
)

// AccountHandler handles HTTP requests for the account settings screen.
type AccountHandler struct {
	service  *services.AccountService
	validate *validator.Validate
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(service *services.AccountService) *AccountHandler {
	return &AccountHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the account routes. The router must already be
// behind SessionRequired.
func (h *AccountHandler) RegisterRoutes(router fiber.Router) {
	accountRoutes := router.Group("/account")
	accountRoutes.Get("/", h.HandleGetAccount)
	accountRoutes.Put("/username", h.HandleUpdateUsername)
	accountRoutes.Put("/email", h.HandleUpdateEmail)
	accountRoutes.Put("/password", h.HandleChangePassword)
	accountRoutes.Delete("/", h.HandleWithdraw)
}

// HandleGetAccount returns the caller's profile.
func (h *AccountHandler) HandleGetAccount(c *fiber.Ctx) error {
	user, err := h.service.GetProfile(middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateUsernameRequest represents the display-name form.
type UpdateUsernameRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
}

// HandleUpdateUsername changes the caller's display name.
func (h *AccountHandler) HandleUpdateUsername(c *fiber.Ctx) error {
	var req UpdateUsernameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.UpdateUsername(middleware.UserID(c), req.Username); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Username updated",
	})
}

// UpdateEmailRequest represents the email-change form.
type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleUpdateEmail changes the caller's login email.
func (h *AccountHandler) HandleUpdateEmail(c *fiber.Ctx) error {
	var req UpdateEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.UpdateEmail(middleware.UserID(c), req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Email updated",
	})
}

// ChangePasswordRequest represents the password-change form.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// HandleChangePassword verifies the current password and sets a new one.
func (h *AccountHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.ChangePassword(middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Password changed",
	})
}

// HandleWithdraw deletes the caller's account together with their items and
// sessions.
func (h *AccountHandler) HandleWithdraw(c *fiber.Ctx) error {
	if err := h.service.Withdraw(middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	c.ClearCookie(middleware.SessionCookie)
	return c.JSON(fiber.Map{
		"message": "Account deleted",
	})
}
