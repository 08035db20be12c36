package server

import (
	"strconv"

	"domemarket/internal/models"
	"domemarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMe handles GET /api/users/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetMyProfile handles GET /api/users/me/profile
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.userService.GetProfile(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	if profile == nil {
		profile = &models.Profile{UserID: currentUserID(c)}
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/users/me/profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		DisplayName string `json:"display_name"`
		StudentID   string `json:"student_id"`
		Bio         string `json:"bio"`
		Phone       string `json:"phone"`
		SocialMedia string `json:"social_media"`
		AvatarURL   string `json:"avatar_url"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		Email       string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:      currentUserID(c),
		DisplayName: req.DisplayName,
		StudentID:   req.StudentID,
		Bio:         req.Bio,
		Phone:       req.Phone,
		SocialMedia: req.SocialMedia,
		AvatarURL:   req.AvatarURL,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetUserProfile handles GET /api/users/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username is required"))
	}

	profile, err := s.userService.GetPublicProfile(c.Context(), username, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetUserPosts handles GET /api/users/:username/posts. The parameter
// accepts either a username or a numeric user ID.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	param := c.Params("username")

	var authorID uint
	if id, err := strconv.ParseUint(param, 10, 32); err == nil {
		authorID = uint(id)
	} else {
		user, err := s.userRepo.GetByUsername(c.Context(), param)
		if err != nil {
			return respondServiceError(c, err)
		}
		if user == nil {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("User", param))
		}
		authorID = user.ID
	}

	p := parsePagination(c, 20)
	posts, err := s.postService.GetUserPosts(c.Context(), authorID, p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}
