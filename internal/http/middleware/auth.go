package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"kiruna/internal/auth"
	"kiruna/internal/model"
)

// ClaimsLocalKey is the locals key holding the *auth.Claims of the caller.
const ClaimsLocalKey = "claims"

// Authenticate reads an optional "Authorization: Bearer <token>" header. A
// valid token stores its claims in locals; a present but invalid token is
// rejected with 401. Requests without the header pass through anonymously.
func Authenticate(tokens *auth.Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "malformed authorization header")
		}

		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// GetClaims returns the claims stored by Authenticate.
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// RequireRoles rejects anonymous callers with 401 and callers whose role is
// not listed with 403. With no roles any authenticated caller passes.
func RequireRoles(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := GetClaims(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		if len(roles) == 0 {
			return c.Next()
		}
		for _, r := range roles {
			if claims.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}
