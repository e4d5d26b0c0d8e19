package middleware

import (
	"go-artisan-pricing/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

const localErrorKind = "error_kind"

// SetErrorKind tags the response of c with the kind of error it reports.
func SetErrorKind(c *fiber.Ctx, kind string) {
	c.Locals(localErrorKind, kind)
}

// CountErrors increments the error counter for every response tagged with
// SetErrorKind.
func CountErrors(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if kind, ok := c.Locals(localErrorKind).(string); ok {
			m.Error(kind)
		}
		return err
	}
}
