package middleware

import (
	"errors"
	"strings"

	"go-artisan-pricing/internal/service"
	"go-artisan-pricing/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by RequireAuth.
const (
	LocalOwnerID   = "owner_id"
	LocalUserEmail = "user_email"
	LocalUserName  = "user_name"
)

// RequireAuth validates the bearer token and stores the owner in the
// request locals. Websocket upgrades cannot set headers from a browser, so
// the token is also accepted as ?token=.
func RequireAuth(tokens *jwt.Manager, auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Check strict session against DB
		user, err := auth.Authenticate(c.UserContext(), claims)
		switch {
		case errors.Is(err, service.ErrSessionExpired), errors.Is(err, service.ErrUserInactive):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, jwt.ErrInvalidToken):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
		case err != nil:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}

		c.Locals(LocalOwnerID, user.ID)
		c.Locals(LocalUserEmail, user.Email)
		c.Locals(LocalUserName, user.FullName)

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
		return "", jwt.ErrMissingToken
	}

	// Extract token from "Bearer <token>"
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("Invalid authorization format. Use: Bearer <token>")
	}
	return parts[1], nil
}
