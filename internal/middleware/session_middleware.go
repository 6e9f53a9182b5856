package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"sedorist/internal/services"
)

// Cookie used by browser clients for persistent login; API clients send the
// same token as a Bearer header instead.
const SessionCookie = "session_token"

// SessionRequired is a Fiber middleware that resolves the session token to
// a user and stores it in the request context. The token comes from the
// Authorization header ("Bearer <token>") or, failing that, the session
// cookie.
func SessionRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = c.Cookies(SessionCookie)
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}

		user, err := authService.ValidateSession(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired session",
			})
		}

		// Stash identity for downstream handlers.
		c.Locals("user_id", user.ID)
		c.Locals("username", user.Username)
		c.Locals("session_token", token)

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// UserID returns the authenticated user's ID set by SessionRequired.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}

// SessionToken returns the raw session token set by SessionRequired.
func SessionToken(c *fiber.Ctx) string {
	token, _ := c.Locals("session_token").(string)
	return token
}
