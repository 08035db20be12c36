package repository

import (
	"context"
	"errors"

	"domemarket/internal/cache"
	"domemarket/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewAggregate summarizes the reviews attached to one post.
type ReviewAggregate struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// ReviewRepository defines persistence operations for post reviews.
type ReviewRepository interface {
	Upsert(ctx context.Context, review *models.Review) error
	GetByPostAndAuthor(ctx context.Context, postID, authorID uint) (*models.Review, error)
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Review, error)
	Aggregate(ctx context.Context, postID uint) (*ReviewAggregate, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository returns a new ReviewRepository implementation.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Upsert writes a review, replacing the author's previous review of the
// same post if one exists. One review per author per post.
func (r *reviewRepository) Upsert(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "author_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).
		Create(review).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, review.PostID)
	cache.InvalidateListings(ctx)
	return nil
}

func (r *reviewRepository) GetByPostAndAuthor(ctx context.Context, postID, authorID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND author_id = ?", postID, authorID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &review, nil
}

func (r *reviewRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("reviews.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}

// Aggregate computes the live review count and mean rating for a post.
// The mean is rounded to one decimal in SQL so every surface reports the
// same figure. Posts with no reviews report a zero average, never an error.
func (r *reviewRepository) Aggregate(ctx context.Context, postID uint) (*ReviewAggregate, error) {
	var agg ReviewAggregate
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) as count, COALESCE(ROUND(AVG(rating), 1), 0) as average_rating").
		Where("post_id = ?", postID).
		Scan(&agg).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &agg, nil
}
