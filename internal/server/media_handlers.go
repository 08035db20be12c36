package server

import (
	"domemarket/internal/models"
	"domemarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadMedia handles POST /api/posts/:id/media
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An image file is required"))
	}

	content, err := readMultipartFile(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}

	media, err := s.mediaService.Upload(c.Context(), service.UploadMediaInput{
		UserID:      currentUserID(c),
		PostID:      id,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(media)
}

// ServeMedia handles GET /media/* for stored uploads.
func (s *Server) ServeMedia(c *fiber.Ctx) error {
	full, err := s.mediaService.ResolveForServing(c.Params("*"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.SendFile(full)
}
