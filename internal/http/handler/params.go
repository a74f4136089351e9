package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// idParam returns the :id route parameter in canonical UUID form, or writes
// INVALID_ID when it is not a UUID. ok is false once the response is written.
func idParam(c *fiber.Ctx) (id string, ok bool, err error) {
	parsed, perr := uuid.Parse(c.Params("id"))
	if perr != nil {
		return "", false, writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	return parsed.String(), true, nil
}

// parseBody decodes a JSON body into dst, writing INVALID_BODY on failure.
func parseBody(c *fiber.Ctx, dst any) (ok bool, err error) {
	if err := c.BodyParser(dst); err != nil {
		return false, writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
	}
	return true, nil
}
