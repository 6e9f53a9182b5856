package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"sedorist/internal/middleware"
	"sedorist/internal/services"
)

// AuthHandler handles HTTP requests for signup, login and password reset.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public auth routes. Logout needs a session
// and is registered separately via RegisterProtectedRoutes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/guest", h.HandleGuestLogin)
	authRoutes.Post("/password-reset/request", h.HandleResetRequest)
	authRoutes.Post("/password-reset/confirm", h.HandleResetConfirm)
}

// RegisterProtectedRoutes registers the auth routes that require a session.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/auth/logout", h.HandleLogout)
}

// RegisterRequest represents the signup form.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	user, err := h.authService.Signup(req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles login and issues a session token. The token is
// returned in the body for API clients and set as a cookie for browsers.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, token)
	return c.JSON(fiber.Map{
		"message":       "Login successful",
		"session_token": token,
		"user":          user,
	})
}

// HandleGuestLogin creates a throwaway guest account and logs it in.
func (h *AuthHandler) HandleGuestLogin(c *fiber.Ctx) error {
	user, token, err := h.authService.GuestLogin()
	if err != nil {
		return respondError(c, err)
	}

	h.setSessionCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Logged in as guest",
		"session_token": token,
		"user":          user,
	})
}

// HandleLogout revokes the current session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(middleware.SessionToken(c)); err != nil {
		logrus.WithError(err).Warn("logout failed")
	}
	c.ClearCookie(middleware.SessionCookie)
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// ResetRequestRequest represents the "forgot password" form.
type ResetRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleResetRequest issues a reset token and mails the reset link. The
// response is the same whether or not the email belongs to an account.
func (h *AuthHandler) HandleResetRequest(c *fiber.Ctx) error {
	var req ResetRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.authService.RequestPasswordReset(req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "If that address is registered, a reset email is on its way",
	})
}

// ResetConfirmRequest represents the new-password form behind a reset link.
type ResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// HandleResetConfirm consumes a reset token and sets the new password.
func (h *AuthHandler) HandleResetConfirm(c *fiber.Ctx) error {
	var req ResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.authService.ConfirmPasswordReset(req.Token, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Password has been reset, please log in",
	})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
