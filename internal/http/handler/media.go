package handler

import (
	"mime"

	"github.com/gofiber/fiber/v2"

	"kiruna/internal/http/middleware"
	"kiruna/internal/service"
)

// UploadMedia stores a multipart file (field name: file) in the object store.
//
// @Summary Upload media
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "file to upload"
// @Success 201 {object} model.Media
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Security BearerAuth
// @Router /api/media [post]
func UploadMedia(svc service.MediaService, maxBytes int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		if maxBytes > 0 && fh.Size > maxBytes {
			return writeError(c, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "file exceeds the upload limit")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		in := service.UploadInput{Reader: f, Filename: fh.Filename, Size: fh.Size}
		if claims, ok := middleware.GetClaims(c); ok {
			in.Owner = claims.UserID
		}

		m, err := svc.Upload(c.UserContext(), in)
		if err != nil {
			return respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

// GetMedia returns media metadata with a presigned download URL.
//
// @Summary Get media
// @Tags media
// @Produce json
// @Param id path string true "media id"
// @Success 200 {object} service.MediaLink
// @Failure 404 {object} errorPayload
// @Router /api/media/{id} [get]
func GetMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c)
		if !ok {
			return err
		}
		link, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(link)
	}
}

// GetMediaContent streams the stored file of a media item.
//
// @Summary Download media content
// @Tags media
// @Produce octet-stream
// @Param id path string true "media id"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Router /api/media/{id}/content [get]
func GetMediaContent(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := idParam(c)
		if !ok {
			return err
		}
		content, err := svc.Open(c.UserContext(), id)
		if err != nil {
			return respond(c, err)
		}

		c.Set(fiber.HeaderContentType, content.ContentType)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("inline", map[string]string{"filename": content.Filename}))
		// The response closes Body once it is written.
		return c.SendStream(content.Body, int(content.Size))
	}
}
