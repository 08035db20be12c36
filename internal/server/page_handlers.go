package server

import (
	"domemarket/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Home handles GET /api/home
func (s *Server) Home(c *fiber.Ctx) error {
	home, err := s.listingService.Home(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(home)
}

// HiringPage handles GET /api/hiring?page=N
func (s *Server) HiringPage(c *fiber.Ctx) error {
	page, err := s.listingService.Page(c.Context(), models.KindHiring, parsePage(c), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// RentalPage handles GET /api/rental?page=N
func (s *Server) RentalPage(c *fiber.Ctx) error {
	page, err := s.listingService.Page(c.Context(), models.KindRental, parsePage(c), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// Search handles GET /api/search?q=
func (s *Server) Search(c *fiber.Ctx) error {
	result, err := s.listingService.Search(c.Context(), c.Query("q"), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
