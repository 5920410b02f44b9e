package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/streetup/backend/internal/apperr"
)

// respondError renders any service error as {"error": message} with the
// status from the taxonomy.
func respondError(c *fiber.Ctx, err error) error {
	return c.Status(apperr.StatusOf(err)).JSON(fiber.Map{"error": apperr.MessageOf(err)})
}
