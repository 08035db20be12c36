package service

import (
	"context"
	"regexp"

	"domemarket/internal/models"
	"domemarket/internal/repository"
	"domemarket/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

// UpdateProfileInput carries a profile edit plus the account fields the
// same form exposes. Empty account fields are left untouched.
type UpdateProfileInput struct {
	UserID      uint
	DisplayName string
	StudentID   string
	Bio         string
	Phone       string
	SocialMedia string
	AvatarURL   string
	FirstName   string
	LastName    string
	Email       string
}

// PublicProfile bundles a user's visible identity with their posts.
type PublicProfile struct {
	User  *models.User   `json:"user"`
	Posts []*models.Post `json:"posts"`
}

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetPublicProfile resolves a username to the user and their posts,
// newest first. Viewer identity only affects the booked flag on cards.
func (s *UserService) GetPublicProfile(ctx context.Context, username string, currentUserID uint) (*PublicProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}

	posts, err := s.postRepo.GetByAuthorID(ctx, user.ID, 50, 0, currentUserID)
	if err != nil {
		return nil, err
	}
	return &PublicProfile{User: user, Posts: posts}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	const maxBioLen = 2000
	const maxDisplayNameLen = 255

	if len(in.Bio) > maxBioLen {
		return nil, models.NewValidationError("Bio too long (max 2000 characters)")
	}
	if len(in.DisplayName) > maxDisplayNameLen {
		return nil, models.NewValidationError("Display name too long (max 255 characters)")
	}
	if in.Phone != "" && (len(in.Phone) != 10 || !digitsOnly.MatchString(in.Phone)) {
		return nil, models.NewValidationError("Phone must be 10 digits")
	}
	if in.StudentID != "" && (len(in.StudentID) != 10 || !digitsOnly.MatchString(in.StudentID)) {
		return nil, models.NewValidationError("Student ID must be 10 digits")
	}

	// Verify the account exists before writing the profile row.
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != "" || in.LastName != "" || in.Email != "" {
		if in.FirstName != "" {
			user.FirstName = in.FirstName
		}
		if in.LastName != "" {
			user.LastName = in.LastName
		}
		if in.Email != "" && in.Email != user.Email {
			if err := validation.ValidateEmail(in.Email); err != nil {
				return nil, models.NewValidationError(err.Error())
			}
			user.Email = in.Email
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	profile := &models.Profile{
		UserID:      in.UserID,
		DisplayName: in.DisplayName,
		StudentID:   in.StudentID,
		Bio:         in.Bio,
		Phone:       in.Phone,
		SocialMedia: in.SocialMedia,
		AvatarURL:   in.AvatarURL,
	}
	if err := s.userRepo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	return s.userRepo.GetProfile(ctx, in.UserID)
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.userRepo.GetProfile(ctx, userID)
}
