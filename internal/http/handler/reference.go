package handler

import (
	"github.com/gofiber/fiber/v2"

	"kiruna/internal/service"
)

// ListStakeholders returns every stakeholder ordered by name.
//
// @Summary List stakeholders
// @Tags stakeholders
// @Produce json
// @Success 200 {array} model.Stakeholder
// @Router /api/stakeholders [get]
func ListStakeholders(svc service.StakeholderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(items)
	}
}

// CreateStakeholder adds a stakeholder. Names are unique regardless of case.
//
// @Summary Create stakeholder
// @Tags stakeholders
// @Accept json
// @Produce json
// @Param body body service.ReferenceInput true "stakeholder"
// @Success 201 {object} model.Stakeholder
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Security BearerAuth
// @Router /api/stakeholders [post]
func CreateStakeholder(svc service.StakeholderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ReferenceInput
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		s, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(s)
	}
}

// @Summary List document types
// @Tags document-types
// @Produce json
// @Success 200 {array} model.DocumentType
// @Router /api/document-types [get]
func ListDocumentTypes(svc service.DocumentTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(items)
	}
}

// @Summary Create document type
// @Tags document-types
// @Accept json
// @Produce json
// @Param body body service.ReferenceInput true "document type"
// @Success 201 {object} model.DocumentType
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Security BearerAuth
// @Router /api/document-types [post]
func CreateDocumentType(svc service.DocumentTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ReferenceInput
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		t, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}
