package handler

import (
	"github.com/gofiber/fiber/v2"

	"kiruna/internal/service"
)

// @Summary List coordinates
// @Tags coordinates
// @Produce json
// @Success 200 {array} model.Coordinate
// @Router /api/coordinates [get]
func ListCoordinates(svc service.CoordinateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(items)
	}
}

// @Summary Get coordinate
// @Tags coordinates
// @Produce json
// @Param id path string true "coordinate id"
// @Success 200 {object} model.Coordinate
// @Failure 404 {object} errorPayload
// @Router /api/coordinates/{id} [get]
func GetCoordinate(svc service.CoordinateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c)
		if !ok {
			return err
		}
		coord, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(coord)
	}
}

// CreateCoordinate stores a Point or a Polygon.
//
// @Summary Create coordinate
// @Tags coordinates
// @Accept json
// @Produce json
// @Param body body service.CoordinateInput true "geometry"
// @Success 201 {object} model.Coordinate
// @Failure 400 {object} errorPayload
// @Security BearerAuth
// @Router /api/coordinates [post]
func CreateCoordinate(svc service.CoordinateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CoordinateInput
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		coord, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(coord)
	}
}

// DeleteCoordinate removes a coordinate unless a document still uses it.
//
// @Summary Delete coordinate
// @Tags coordinates
// @Param id path string true "coordinate id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Security BearerAuth
// @Router /api/coordinates/{id} [delete]
func DeleteCoordinate(svc service.CoordinateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c)
		if !ok {
			return err
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return respond(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
