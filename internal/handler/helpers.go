package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-artisan-pricing/internal/apperr"
	"go-artisan-pricing/internal/calculation"
	"go-artisan-pricing/internal/export"
	"go-artisan-pricing/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errUnauthorized = errors.New("unauthorized")

// ownerID returns the owner set by the auth middleware.
func ownerID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(middleware.LocalOwnerID).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, errUnauthorized
	}
	return id, nil
}

// paramID parses the :id route parameter.
func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.Invalid("id", "must be a valid UUID")
	}
	return id, nil
}

// respondError maps the application's error kinds to HTTP responses. The
// kind is left in the locals for the error counter.
func respondError(c *fiber.Ctx, log *slog.Logger, err error) error {
	var ve *apperr.ValidationError
	var mr *apperr.MissingReferenceError
	switch {
	case errors.Is(err, errUnauthorized):
		middleware.SetErrorKind(c, "unauthorized")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	case errors.As(err, &ve):
		middleware.SetErrorKind(c, "validation")
		body := fiber.Map{"error": ve.Error()}
		if ve.Field != "" {
			body["field"] = ve.Field
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &mr):
		middleware.SetErrorKind(c, "missing_reference")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": mr.Error(), "material_id": mr.MaterialID})
	case errors.Is(err, apperr.ErrNotFound):
		middleware.SetErrorKind(c, "not_found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, calculation.ErrInvalidTransition):
		middleware.SetErrorKind(c, "conflict")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	middleware.SetErrorKind(c, "persistence")
	log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func invalidJSON(c *fiber.Ctx) error {
	middleware.SetErrorKind(c, "validation")
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}

func sendWorkbook(c *fiber.Ctx, prefix string, data []byte) error {
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Attachment(fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("20060102_150405")))
	return c.Send(data)
}
