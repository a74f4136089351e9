package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"kiruna/internal/storage"
)

// HealthCheck reports readiness: the database must answer a ping and, when
// given, the media bucket must be reachable.
//
// @Summary Readiness probe
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB, store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		failed := map[string]string{}
		if err := db.PingContext(ctx); err != nil {
			failed["database"] = "unreachable"
		}
		if store != nil {
			if err := store.Ping(ctx); err != nil {
				failed["storage"] = "unreachable"
			}
		}
		if len(failed) > 0 {
			return writeErrorDetails(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable", failed)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 while the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
