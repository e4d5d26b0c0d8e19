package handler

import (
	"log/slog"

	"go-artisan-pricing/internal/model"
	"go-artisan-pricing/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ConfigurationHandler struct {
	service service.ConfigurationService
	log     *slog.Logger
}

func NewConfigurationHandler(s service.ConfigurationService, log *slog.Logger) *ConfigurationHandler {
	return &ConfigurationHandler{service: s, log: log}
}

// GetConfiguration returns the owner's rates, creating the defaults on
// first access.
// GET /api/v1/configuration
func (h *ConfigurationHandler) GetConfiguration(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	view, err := h.service.View(c.UserContext(), owner)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(view)
}

// PATCH /api/v1/configuration
func (h *ConfigurationHandler) UpdateConfiguration(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var patch model.ConfigurationPatch
	if err := c.BodyParser(&patch); err != nil {
		return invalidJSON(c)
	}

	if _, err := h.service.Save(c.UserContext(), owner, owner.String(), patch); err != nil {
		return respondError(c, h.log, err)
	}

	view, err := h.service.View(c.UserContext(), owner)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Configuration saved", "data": view})
}
