package handler

import (
	"log/slog"

	"go-artisan-pricing/internal/model"
	"go-artisan-pricing/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MaterialHandler struct {
	service service.MaterialService
	log     *slog.Logger
}

func NewMaterialHandler(s service.MaterialService, log *slog.Logger) *MaterialHandler {
	return &MaterialHandler{service: s, log: log}
}

// GetMaterials lists the owner's materials by name
// GET /api/v1/materials
func (h *MaterialHandler) GetMaterials(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	materials, err := h.service.List(c.UserContext(), owner)
	if err != nil {
		return respondError(c, h.log, err)
	}

	res := make([]model.MaterialResponse, len(materials))
	for i := range materials {
		res[i] = materials[i].ToResponse()
	}
	return c.JSON(res)
}

// GET /api/v1/materials/:id
func (h *MaterialHandler) GetMaterial(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	m, err := h.service.Get(c.UserContext(), owner, id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(m.ToResponse())
}

// POST /api/v1/materials
func (h *MaterialHandler) CreateMaterial(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var in model.MaterialInput
	if err := c.BodyParser(&in); err != nil {
		return invalidJSON(c)
	}

	m, err := h.service.Create(c.UserContext(), owner, owner.String(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Material created", "data": m.ToResponse()})
}

// UpdateMaterial applies a partial update. Omitted fields keep their value.
// PATCH /api/v1/materials/:id
func (h *MaterialHandler) UpdateMaterial(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var patch model.MaterialPatch
	if err := c.BodyParser(&patch); err != nil {
		return invalidJSON(c)
	}

	m, err := h.service.Update(c.UserContext(), owner, id, owner.String(), patch)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Material updated", "data": m.ToResponse()})
}

// DELETE /api/v1/materials/:id
func (h *MaterialHandler) DeleteMaterial(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.service.Delete(c.UserContext(), owner, id, owner.String()); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Material deleted"})
}

// GET /api/v1/materials/export
func (h *MaterialHandler) ExportMaterials(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	buf, err := h.service.Export(c.UserContext(), owner)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendWorkbook(c, "materials", buf.Bytes())
}
