package handler

import (
	"log/slog"

	"go-artisan-pricing/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
	log     *slog.Logger
}

func NewDashboardHandler(s service.DashboardService, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{service: s, log: log}
}

// GetDashboardStats returns overview statistics
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	stats, err := h.service.GetDashboardStats(c.UserContext(), owner)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(stats)
}
