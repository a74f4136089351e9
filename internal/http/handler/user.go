package handler

import (
	"github.com/gofiber/fiber/v2"

	"kiruna/internal/http/middleware"
	"kiruna/internal/model"
	"kiruna/internal/service"
)

// Register creates an account. Anonymous callers always get RESIDENT.
//
// @Summary Register
// @Tags users
// @Accept json
// @Produce json
// @Param body body service.RegisterInput true "account"
// @Success 201 {object} model.User
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/users [post]
func Register(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if ok, err := parseBody(c, &in); !ok {
			return err
		}

		var actor model.Role
		if claims, ok := middleware.GetClaims(c); ok {
			actor = claims.Role
		}

		u, err := svc.Register(c.UserContext(), actor, in)
		if err != nil {
			return respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

// @Summary Login
// @Tags sessions
// @Accept json
// @Produce json
// @Param body body service.LoginInput true "credentials"
// @Success 201 {object} service.Session
// @Failure 401 {object} errorPayload
// @Router /api/sessions [post]
func Login(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.LoginInput
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		s, err := svc.Login(c.UserContext(), in)
		if err != nil {
			return respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(s)
	}
}

// CurrentUser returns the account behind the bearer token.
//
// @Summary Current user
// @Tags sessions
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} errorPayload
// @Security BearerAuth
// @Router /api/sessions/current [get]
func CurrentUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := middleware.GetClaims(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		u, err := svc.Get(c.UserContext(), claims.UserID)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(u)
	}
}
