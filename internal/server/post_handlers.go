package server

import (
	"io"
	"mime/multipart"

	"domemarket/internal/models"
	"domemarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// CreateHiringPost handles POST /api/posts/hiring
func (s *Server) CreateHiringPost(c *fiber.Ctx) error {
	var req struct {
		Title       string   `json:"title" form:"title"`
		Description string   `json:"description" form:"description"`
		BudgetMin   int      `json:"budget_min" form:"budget_min"`
		BudgetMax   int      `json:"budget_max" form:"budget_max"`
		WorkType    string   `json:"work_type" form:"work_type"`
		Skills      []string `json:"skills" form:"skills"`
		MediaURLs   []string `json:"media_urls" form:"media_urls"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreateHiringPost(c.Context(), service.CreateHiringPostInput{
		AuthorID:    currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		WorkType:    req.WorkType,
		Skills:      req.Skills,
		MediaURLs:   req.MediaURLs,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return s.attachUploadsAndRespond(c, post)
}

// CreateRentalPost handles POST /api/posts/rental
func (s *Server) CreateRentalPost(c *fiber.Ctx) error {
	var req struct {
		Title       string   `json:"title" form:"title"`
		Description string   `json:"description" form:"description"`
		PricePerDay int      `json:"price_per_day" form:"price_per_day"`
		Deposit     int      `json:"deposit" form:"deposit"`
		Categories  []string `json:"categories" form:"categories"`
		MediaURLs   []string `json:"media_urls" form:"media_urls"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreateRentalPost(c.Context(), service.CreateRentalPostInput{
		AuthorID:    currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		PricePerDay: req.PricePerDay,
		Deposit:     req.Deposit,
		Categories:  req.Categories,
		MediaURLs:   req.MediaURLs,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return s.attachUploadsAndRespond(c, post)
}

// attachUploadsAndRespond stores any multipart image files against the
// freshly created post, then returns the refreshed detail with 201.
func (s *Server) attachUploadsAndRespond(c *fiber.Ctx, post *models.Post) error {
	files := multipartImages(c)
	for _, file := range files {
		content, err := readMultipartFile(file)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Could not read uploaded file"))
		}
		if _, err := s.mediaService.Upload(c.Context(), service.UploadMediaInput{
			UserID:      currentUserID(c),
			PostID:      post.ID,
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Content:     content,
		}); err != nil {
			return respondServiceError(c, err)
		}
	}

	if len(files) > 0 {
		refreshed, err := s.postService.GetPost(c.Context(), post.ID, currentUserID(c))
		if err != nil {
			return respondServiceError(c, err)
		}
		post = refreshed
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// multipartImages returns the uploaded image files, if the request was
// multipart at all.
func multipartImages(c *fiber.Ctx) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["images"]
}

func readMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return io.ReadAll(f)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string   `json:"title"`
		Description *string  `json:"description"`
		BudgetMin   *int     `json:"budget_min"`
		BudgetMax   *int     `json:"budget_max"`
		WorkType    *string  `json:"work_type"`
		PricePerDay *int     `json:"price_per_day"`
		Deposit     *int     `json:"deposit"`
		Skills      []string `json:"skills"`
		Categories  []string `json:"categories"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		AuthorID:    currentUserID(c),
		PostID:      id,
		Title:       req.Title,
		Description: req.Description,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		WorkType:    req.WorkType,
		PricePerDay: req.PricePerDay,
		Deposit:     req.Deposit,
		Skills:      req.Skills,
		Categories:  req.Categories,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	}); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleBooking handles POST /api/posts/:id/book
func (s *Server) ToggleBooking(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleBooking(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"booked": post.Booked,
		"post":   post,
	})
}
