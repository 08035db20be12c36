package server

import (
	"domemarket/internal/models"
	"domemarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReview handles POST /api/posts/:id/reviews
func (s *Server) CreateReview(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	review, err := s.reviewService.SubmitReview(c.Context(), service.SubmitReviewInput{
		AuthorID: currentUserID(c),
		PostID:   id,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// GetReviews handles GET /api/posts/:id/reviews
func (s *Server) GetReviews(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	reviews, err := s.reviewService.ListReviews(c.Context(), id, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	agg, err := s.reviewService.Aggregate(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"reviews":        reviews,
		"count":          agg.Count,
		"average_rating": agg.AverageRating,
	})
}
