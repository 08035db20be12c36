// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"domemarket/internal/cache"
	"domemarket/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ListByKind(ctx context.Context, kind models.PostKind, limit, offset int, currentUserID uint) ([]*models.Post, error)
	CountByKind(ctx context.Context, kind models.PostKind) (int64, error)
	Recent(ctx context.Context, kind models.PostKind, n int, currentUserID uint) ([]*models.Post, error)
	SearchHiring(ctx context.Context, query string, currentUserID uint) ([]*models.Post, error)
	SearchRental(ctx context.Context, query string, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	AddMedia(ctx context.Context, media *models.Media) error
	IsBooked(ctx context.Context, userID, postID uint) (bool, error)
	Book(ctx context.Context, userID, postID uint) error
	Unbook(ctx context.Context, userID, postID uint) error
	SkillsByName(ctx context.Context, names []string) ([]models.Skill, error)
	CategoriesByName(ctx context.Context, names []string) ([]models.Category, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateListings(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	fetch := func() error {
		if err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Author").
			Preload("Author.Profile").
			Preload("Hiring").
			Preload("Rental").
			Preload("Media").
			Preload("Skills").
			Preload("Categories").
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if currentUserID == 0 {
		// Anonymous detail pages are identical for everyone, so they cache well.
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Hiring").
		Preload("Rental").
		Preload("Media").
		Where("author_id = ?", authorID).
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByKind(ctx context.Context, kind models.PostKind, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Hiring").
		Preload("Rental").
		Preload("Media").
		Where("kind = ?", kind).
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CountByKind(ctx context.Context, kind models.PostKind) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("kind = ?", kind).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) Recent(ctx context.Context, kind models.PostKind, n int, currentUserID uint) ([]*models.Post, error) {
	return r.ListByKind(ctx, kind, n, 0, currentUserID)
}

func (r *postRepository) SearchHiring(ctx context.Context, query string, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + query + "%"
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Hiring").
		Preload("Media").
		Where("kind = ?", models.KindHiring).
		Where(`title ILIKE ? OR description ILIKE ? OR EXISTS (
			SELECT 1 FROM post_skills
			JOIN skills ON skills.id = post_skills.skill_id
			WHERE post_skills.post_id = posts.id AND skills.name ILIKE ?)`,
			like, like, like).
		Order("posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) SearchRental(ctx context.Context, query string, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + query + "%"
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Rental").
		Preload("Media").
		Where("kind = ?", models.KindRental).
		Where(`title ILIKE ? OR description ILIKE ? OR EXISTS (
			SELECT 1 FROM post_categories
			JOIN categories ON categories.id = post_categories.category_id
			WHERE post_categories.post_id = posts.id AND categories.name ILIKE ?)`,
			like, like, like).
		Order("posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch review aggregates and booked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM reviews WHERE reviews.post_id = posts.id) as review_count, " +
		"(SELECT COALESCE(ROUND(AVG(rating), 1), 0) FROM reviews WHERE reviews.post_id = posts.id) as average_rating"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM bookings WHERE bookings.post_id = posts.id AND bookings.user_id = ?) as booked", currentUserID)
	}

	return db.Select(selectQuery + ", false as booked")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Media", "Skills", "Categories").Save(post).Error; err != nil {
			return err
		}
		if post.Hiring != nil {
			if err := tx.Save(post.Hiring).Error; err != nil {
				return err
			}
		}
		if post.Rental != nil {
			if err := tx.Save(post.Rental).Error; err != nil {
				return err
			}
		}
		if post.Skills != nil {
			if err := tx.Model(post).Association("Skills").Replace(post.Skills); err != nil {
				return err
			}
		}
		if post.Categories != nil {
			if err := tx.Model(post).Association("Categories").Replace(post.Categories); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateListings(ctx)
	return nil
}

// Delete removes a post and everything hanging off it. Row deletion order
// matters: children first, base row last.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Media{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.HiringPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.RentalPost{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_skills WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_categories WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateListings(ctx)
	return nil
}

func (r *postRepository) AddMedia(ctx context.Context, media *models.Media) error {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, media.PostID)
	cache.InvalidateListings(ctx)
	return nil
}

func (r *postRepository) IsBooked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) Book(ctx context.Context, userID, postID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING is atomic, so two concurrent
	// toggles cannot produce a duplicate booking row.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO bookings (user_id, post_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) Unbook(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Booking{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// SkillsByName resolves skill names to rows, creating any that are missing.
func (r *postRepository) SkillsByName(ctx context.Context, names []string) ([]models.Skill, error) {
	skills := make([]models.Skill, 0, len(names))
	for _, name := range names {
		var skill models.Skill
		if err := r.db.WithContext(ctx).
			Where(models.Skill{Name: name}).
			FirstOrCreate(&skill).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		skills = append(skills, skill)
	}
	return skills, nil
}

// CategoriesByName resolves category names to rows. Unlike skills,
// categories are a curated list and are never auto-created here.
func (r *postRepository) CategoriesByName(ctx context.Context, names []string) ([]models.Category, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Where("name IN ?", names).
		Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}
