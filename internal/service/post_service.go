package service

import (
	"context"

	"domemarket/internal/featureflags"
	"domemarket/internal/middleware"
	"domemarket/internal/models"
	"domemarket/internal/repository"
	"domemarket/internal/validation"
)

const eligibleEmailFlag = "eligible_email"

// PostService owns the write-side rules for marketplace posts.
type PostService struct {
	postRepo       repository.PostRepository
	userRepo       repository.UserRepository
	flags          *featureflags.Manager
	eligibleDomain string
}

type CreateHiringPostInput struct {
	AuthorID    uint
	Title       string
	Description string
	BudgetMin   int
	BudgetMax   int
	WorkType    string
	Skills      []string
	MediaURLs   []string
}

type CreateRentalPostInput struct {
	AuthorID    uint
	Title       string
	Description string
	PricePerDay int
	Deposit     int
	Categories  []string
	MediaURLs   []string
}

// UpdatePostInput carries a partial post edit. Nil pointers leave the
// corresponding field untouched; the post's kind can never change.
type UpdatePostInput struct {
	AuthorID    uint
	PostID      uint
	Title       string
	Description *string
	BudgetMin   *int
	BudgetMax   *int
	WorkType    *string
	PricePerDay *int
	Deposit     *int
	Skills      []string
	Categories  []string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	flags *featureflags.Manager,
	eligibleDomain string,
) *PostService {
	return &PostService{
		postRepo:       postRepo,
		userRepo:       userRepo,
		flags:          flags,
		eligibleDomain: eligibleDomain,
	}
}

// checkEligibility rejects authors outside the campus email domain when
// the eligible_email flag is on. Staff accounts always pass.
func (s *PostService) checkEligibility(ctx context.Context, authorID uint) error {
	if s.flags == nil || !s.flags.Enabled(eligibleEmailFlag, authorID) {
		return nil
	}
	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return err
	}
	if !validation.IsEligibleAuthor(author.Email, author.IsStaff, s.eligibleDomain) {
		return models.NewUnauthorizedError("Only campus accounts can create posts")
	}
	return nil
}

func (s *PostService) CreateHiringPost(ctx context.Context, in CreateHiringPostInput) (*models.Post, error) {
	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateDescription(in.Description); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateHiringBudget(in.BudgetMin, in.BudgetMax); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.checkEligibility(ctx, in.AuthorID); err != nil {
		return nil, err
	}

	skills, err := s.postRepo.SkillsByName(ctx, dedupeNonEmpty(in.Skills))
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       in.Title,
		Description: in.Description,
		Kind:        models.KindHiring,
		AuthorID:    in.AuthorID,
		Hiring: &models.HiringPost{
			BudgetMin: in.BudgetMin,
			BudgetMax: in.BudgetMax,
			WorkType:  in.WorkType,
		},
		Skills: skills,
		Media:  mediaFromURLs(in.MediaURLs),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.AuthorID)
}

func (s *PostService) CreateRentalPost(ctx context.Context, in CreateRentalPostInput) (*models.Post, error) {
	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateDescription(in.Description); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateRentalPricing(in.PricePerDay, in.Deposit); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.checkEligibility(ctx, in.AuthorID); err != nil {
		return nil, err
	}

	categories, err := s.postRepo.CategoriesByName(ctx, dedupeNonEmpty(in.Categories))
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if !c.AllowsKind(models.KindRental) {
			return nil, models.NewValidationError("Category " + c.Name + " is not a rental category")
		}
	}

	post := &models.Post{
		Title:       in.Title,
		Description: in.Description,
		Kind:        models.KindRental,
		AuthorID:    in.AuthorID,
		Rental: &models.RentalPost{
			PricePerDay: in.PricePerDay,
			Deposit:     in.Deposit,
		},
		Categories: categories,
		Media:      mediaFromURLs(in.MediaURLs),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.AuthorID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByAuthorID(ctx, authorID, limit, offset, currentUserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.AuthorID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if in.Title != "" {
		if err := validation.ValidateTitle(in.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Title = in.Title
	}
	if in.Description != nil {
		if err := validation.ValidateDescription(*in.Description); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Description = *in.Description
	}

	switch post.Kind {
	case models.KindHiring:
		if post.Hiring == nil {
			post.Hiring = &models.HiringPost{PostID: post.ID}
		}
		if in.BudgetMin != nil {
			post.Hiring.BudgetMin = *in.BudgetMin
		}
		if in.BudgetMax != nil {
			post.Hiring.BudgetMax = *in.BudgetMax
		}
		if in.WorkType != nil {
			post.Hiring.WorkType = *in.WorkType
		}
		if err := validation.ValidateHiringBudget(post.Hiring.BudgetMin, post.Hiring.BudgetMax); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if in.Skills != nil {
			skills, err := s.postRepo.SkillsByName(ctx, dedupeNonEmpty(in.Skills))
			if err != nil {
				return nil, err
			}
			post.Skills = skills
		}
	case models.KindRental:
		if post.Rental == nil {
			post.Rental = &models.RentalPost{PostID: post.ID}
		}
		if in.PricePerDay != nil {
			post.Rental.PricePerDay = *in.PricePerDay
		}
		if in.Deposit != nil {
			post.Rental.Deposit = *in.Deposit
		}
		if err := validation.ValidateRentalPricing(post.Rental.PricePerDay, post.Rental.Deposit); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if in.Categories != nil {
			categories, err := s.postRepo.CategoriesByName(ctx, dedupeNonEmpty(in.Categories))
			if err != nil {
				return nil, err
			}
			for _, c := range categories {
				if !c.AllowsKind(models.KindRental) {
					return nil, models.NewValidationError("Category " + c.Name + " is not a rental category")
				}
			}
			post.Categories = categories
		}
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID, in.AuthorID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if post.AuthorID != in.UserID {
		user, err := s.userRepo.GetByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !user.IsStaff {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// ToggleBooking flips the caller's booking on a post and returns the
// refreshed post. Any authenticated user may toggle, authors included.
func (s *PostService) ToggleBooking(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}

	booked, err := s.postRepo.IsBooked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if booked {
		if err := s.postRepo.Unbook(ctx, userID, postID); err != nil {
			return nil, err
		}
		middleware.BookingToggles.WithLabelValues("unbooked").Inc()
	} else {
		if err := s.postRepo.Book(ctx, userID, postID); err != nil {
			return nil, err
		}
		middleware.BookingToggles.WithLabelValues("booked").Inc()
	}

	return s.postRepo.GetByID(ctx, postID, userID)
}

func mediaFromURLs(urls []string) []models.Media {
	media := make([]models.Media, 0, len(urls))
	for _, u := range dedupeNonEmpty(urls) {
		media = append(media, models.Media{SourceURL: u})
	}
	return media
}

func dedupeNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
