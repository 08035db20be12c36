package service

import (
	"context"

	"domemarket/internal/models"
	"domemarket/internal/repository"
	"domemarket/internal/validation"
)

// ReviewService owns the review rules: one review per user per post,
// never on your own post.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	postRepo   repository.PostRepository
}

type SubmitReviewInput struct {
	AuthorID uint
	PostID   uint
	Rating   int
	Comment  string
}

func NewReviewService(reviewRepo repository.ReviewRepository, postRepo repository.PostRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, postRepo: postRepo}
}

// SubmitReview creates the caller's review of a post, or replaces their
// earlier one. Last write wins.
func (s *ReviewService) SubmitReview(ctx context.Context, in SubmitReviewInput) (*models.Review, error) {
	if err := validation.ValidateRating(in.Rating); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID == in.AuthorID {
		return nil, models.NewUnauthorizedError("You cannot review your own post")
	}

	review := &models.Review{
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
		Rating:   in.Rating,
		Comment:  in.Comment,
	}
	if err := s.reviewRepo.Upsert(ctx, review); err != nil {
		return nil, err
	}
	return s.reviewRepo.GetByPostAndAuthor(ctx, in.PostID, in.AuthorID)
}

func (s *ReviewService) ListReviews(ctx context.Context, postID uint, limit, offset int) ([]*models.Review, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByPost(ctx, postID, limit, offset)
}

// Aggregate returns the review count and mean rating for a post.
func (s *ReviewService) Aggregate(ctx context.Context, postID uint) (*repository.ReviewAggregate, error) {
	return s.reviewRepo.Aggregate(ctx, postID)
}
