package middleware

import (
	"log/slog"
	"strings"

	"socialhub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Keys under which the verified identity is stored in fiber.Ctx.Locals.
const (
	LocalUserID = "userId"
	LocalEmail  = "email"
)

// UnauthorizedMessage is sent when no token is supplied. Clients match on it.
const UnauthorizedMessage = "Your are unauthorized"

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Expected format: "Bearer <token>"
		tokenString := ""
		if parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 3); len(parts) >= 2 {
			tokenString = parts[1]
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": UnauthorizedMessage,
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			slog.Debug("JWT validation failed", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": err.Error(),
			})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		return c.Next()
	}
}

// CurrentUserID returns the userId attached by AuthRequired.
func CurrentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

