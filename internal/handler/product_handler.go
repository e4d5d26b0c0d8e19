package handler

import (
	"log/slog"

	"go-artisan-pricing/internal/model"
	"go-artisan-pricing/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
	log     *slog.Logger
}

func NewProductHandler(s service.ProductService, log *slog.Logger) *ProductHandler {
	return &ProductHandler{service: s, log: log}
}

func parseCalculation(c *fiber.Ctx) (service.CalculationRequest, error) {
	var req service.CalculationRequest
	err := c.BodyParser(&req)
	return req, err
}

// Calculate prices a draft without saving it.
// POST /api/v1/calculations
func (h *ProductHandler) Calculate(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	req, err := parseCalculation(c)
	if err != nil {
		return invalidJSON(c)
	}

	p, err := h.service.Calculate(c.UserContext(), owner, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(p.ToResponse())
}

// CreateProduct prices the draft against the current materials and saves
// the result to the history.
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	req, err := parseCalculation(c)
	if err != nil {
		return invalidJSON(c)
	}

	p, err := h.service.Save(c.UserContext(), owner, owner.String(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product saved", "data": p.ToResponse()})
}

// GetProducts lists the history, newest first
// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	products, err := h.service.List(c.UserContext(), owner)
	if err != nil {
		return respondError(c, h.log, err)
	}

	res := make([]model.ProductResponse, len(products))
	for i := range products {
		res[i] = products[i].ToResponse()
	}
	return c.JSON(res)
}

// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	id, err := paramID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	p, err := h.service.Get(c.UserContext(), owner, id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(p.ToResponse())
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
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
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// GET /api/v1/products/export
func (h *ProductHandler) ExportProducts(c *fiber.Ctx) error {
	owner, err := ownerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	buf, err := h.service.Export(c.UserContext(), owner)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendWorkbook(c, "products", buf.Bytes())
}
