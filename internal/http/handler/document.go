package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"kiruna/internal/service"
)

// ListDocuments returns a page of documents matching the query filters.
//
// @Summary List documents
// @Tags documents
// @Produce json
// @Param title query string false "substring of the title, case-insensitive"
// @Param stakeholders query string false "comma separated stakeholder ids, any of"
// @Param type query string false "document type id"
// @Param scale query string false "TEXT, CONCEPT, ARCHITECTURAL or BLUEPRINTS/ACTUALS"
// @Param language query string false "language"
// @Param startDate query string false "YYYY, YYYY-MM or YYYY-MM-DD"
// @Param endDate query string false "YYYY, YYYY-MM or YYYY-MM-DD"
// @Param limit query int false "page size" default(10)
// @Param offset query int false "items to skip" default(0)
// @Success 200 {object} service.DocumentListResult
// @Failure 400 {object} errorPayload
// @Router /api/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		q := service.DocumentQuery{
			Title:        strings.TrimSpace(c.Query("title")),
			Stakeholders: splitList(c.Query("stakeholders")),
			Type:         strings.TrimSpace(c.Query("type")),
			Scale:        strings.TrimSpace(c.Query("scale")),
			Language:     strings.TrimSpace(c.Query("language")),
			StartDate:    strings.TrimSpace(c.Query("startDate")),
			EndDate:      strings.TrimSpace(c.Query("endDate")),
			Limit:        limit,
			Offset:       offset,
		}

		res, err := svc.List(c.UserContext(), q)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(res)
	}
}

// @Summary Get document
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c)
		if !ok {
			return err
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(doc)
	}
}

// @Summary Create document
// @Tags documents
// @Accept json
// @Produce json
// @Param body body service.DocumentInput true "document"
// @Success 201 {object} model.Document
// @Failure 400 {object} errorPayload
// @Security BearerAuth
// @Router /api/documents [post]
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.DocumentInput
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		doc, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return respond(c, err)
		}
		c.Location("/api/documents/" + doc.ID)
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// UpdateDocument replaces every mutable field of a document.
//
// @Summary Update document
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "document id"
// @Param body body service.DocumentInput true "document"
// @Success 200 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /api/documents/{id} [put]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c)
		if !ok {
			return err
		}
		var in service.DocumentInput
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		doc, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(doc)
	}
}

// @Summary Document connections
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Success 200 {object} model.DocumentConnections
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id}/connections [get]
func ListConnections(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c)
		if !ok {
			return err
		}
		conns, err := svc.Connections(c.UserContext(), id)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(conns)
	}
}

// @Summary Timeline graph
// @Tags graph
// @Produce json
// @Success 200 {object} model.Graph
// @Router /api/graph [get]
func GetGraph(svc service.GraphService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		g, err := svc.Timeline(c.UserContext())
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(g)
	}
}

// splitList splits a comma separated query value, dropping empty items.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
