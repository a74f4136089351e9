package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows the browser client served from origins (comma separated) to
// call the API with a bearer token.
func CORS(origins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Content-Type,Accept,Authorization," + RequestIDHeader,
		ExposeHeaders: RequestIDHeader + ",Location",
	})
}
