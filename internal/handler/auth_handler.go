package handler

import (
	"errors"
	"log/slog"

	"go-artisan-pricing/internal/middleware"
	"go-artisan-pricing/internal/service"
	"go-artisan-pricing/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
	log         *slog.Logger
}

func NewAuthHandler(authService service.AuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ValidateTokenRequest represents the validate token request body
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// authError answers with 401 for credential and session failures and
// falls back to respondError for everything else.
func authError(c *fiber.Ctx, log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrMissingToken):
		middleware.SetErrorKind(c, "unauthorized")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		middleware.SetErrorKind(c, "conflict")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrWrongPassword):
		middleware.SetErrorKind(c, "validation")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return respondError(c, log, err)
}

// Register creates an owner account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	response, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return authError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// Login handles owner authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	response, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return authError(c, h.log, err)
	}

	return c.JSON(response)
}

// ChangePassword handles password change for the signed-in owner
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "old_password and new_password are required"})
	}

	response, err := h.authService.ChangePassword(c.UserContext(), owner, req.OldPassword, req.NewPassword)
	if err != nil {
		return authError(c, h.log, err)
	}

	return c.JSON(fiber.Map{"message": "Password updated successfully", "data": response})
}

// ValidateToken handles JWT token validation
// POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token is required"})
	}

	response, err := h.authService.ValidateToken(c.UserContext(), req.Token)
	if err != nil {
		return authError(c, h.log, err)
	}

	return c.JSON(response)
}
