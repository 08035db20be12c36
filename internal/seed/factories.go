// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"domemarket/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tunes how the factory generates and persists entities.
type SeedOptions struct {
	// DryRun assigns synthetic IDs instead of writing to the database.
	DryRun bool
	// SkipBcrypt stores a plain-text password for faster dev seeding.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over the last N days.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User` with an
// eligible campus email and an attached profile.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999))
	user := &models.User{
		Username:  username,
		Email:     fmt.Sprintf("%s@dome.tu.ac.th", username),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Profile: &models.Profile{
			DisplayName: gofakeit.Name(),
			Bio:         gofakeit.Sentence(10),
			Phone:       fmt.Sprintf("08%08d", gofakeit.Number(0, 99999999)),
			StudentID:   fmt.Sprintf("%010d", gofakeit.Number(6000000000, 6899999999)),
			AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		},
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildHiringPost constructs a hiring post for the given author without
// persisting it. Useful for batching.
func (f *Factory) BuildHiringPost(author *models.User, skills []models.Skill, overrides ...func(*models.Post)) *models.Post {
	budgetMin := gofakeit.Number(1, 50) * 100
	budgetMax := budgetMin + gofakeit.Number(1, 40)*100

	post := &models.Post{
		Title:       fmt.Sprintf("Looking for %s help", gofakeit.JobTitle()),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		Kind:        models.KindHiring,
		AuthorID:    author.ID,
		Hiring: &models.HiringPost{
			BudgetMin: budgetMin,
			BudgetMax: budgetMax,
			WorkType:  gofakeit.RandomString([]string{"one-time", "part-time", "project"}),
		},
		Skills:    pickSkills(skills),
		Media:     randomMedia(),
		CreatedAt: f.spreadCreatedAt(),
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// BuildRentalPost constructs a rental post for the given author without
// persisting it.
func (f *Factory) BuildRentalPost(author *models.User, categories []models.Category, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:       fmt.Sprintf("%s for rent", gofakeit.ProductName()),
		Description: gofakeit.Paragraph(1, 2, 8, "\n"),
		Kind:        models.KindRental,
		AuthorID:    author.ID,
		Rental: &models.RentalPost{
			PricePerDay: gofakeit.Number(1, 20) * 50,
			Deposit:     gofakeit.Number(0, 10) * 500,
		},
		Categories: pickRentalCategories(categories),
		Media:      randomMedia(),
		CreatedAt:  f.spreadCreatedAt(),
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateReview persists a review of post by author.
func (f *Factory) CreateReview(author *models.User, post *models.Post, overrides ...func(*models.Review)) (*models.Review, error) {
	review := &models.Review{
		PostID:   post.ID,
		AuthorID: author.ID,
		Rating:   gofakeit.Number(2, 5),
		Comment:  gofakeit.Sentence(12),
	}

	for _, override := range overrides {
		override(review)
	}

	if f.opts.DryRun {
		f.nextID++
		review.ID = f.nextID
		return review, nil
	}

	if err := f.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// CreateBooking persists a booking of post by user.
func (f *Factory) CreateBooking(user *models.User, post *models.Post) (*models.Booking, error) {
	booking := &models.Booking{
		UserID: user.ID,
		PostID: post.ID,
	}

	if f.opts.DryRun {
		f.nextID++
		booking.ID = f.nextID
		return booking, nil
	}

	if err := f.db.Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// spreadCreatedAt returns a timestamp scattered over the recent past so
// listings don't all share one creation instant.
func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

func pickSkills(skills []models.Skill) []models.Skill {
	if len(skills) == 0 {
		return nil
	}
	n := gofakeit.Number(1, 3)
	if n > len(skills) {
		n = len(skills)
	}
	picked := make([]models.Skill, 0, n)
	seen := map[uint]struct{}{}
	for len(picked) < n {
		s := skills[gofakeit.Number(0, len(skills)-1)]
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		picked = append(picked, s)
	}
	return picked
}

func pickRentalCategories(categories []models.Category) []models.Category {
	rental := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.IsRental {
			rental = append(rental, c)
		}
	}
	if len(rental) == 0 {
		return nil
	}
	return []models.Category{rental[gofakeit.Number(0, len(rental)-1)]}
}

func randomMedia() []models.Media {
	if gofakeit.Number(0, 9) < 4 {
		// Most posts get by on the default image
		return nil
	}
	count := gofakeit.Number(1, 3)
	media := make([]models.Media, 0, count)
	for i := 0; i < count; i++ {
		media = append(media, models.Media{
			SourceURL: fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		})
	}
	return media
}
