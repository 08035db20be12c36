// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"domemarket/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	DryRun      bool
	SkipBcrypt  bool
	// Preset overrides the built-in taxonomy when non-nil.
	Preset *Preset
}

// Distribution splits a post count between the two kinds, in percent.
type Distribution struct {
	Hiring int
	Rental int
}

// defaultDistribution leans rental-heavy, matching real campus usage.
var defaultDistribution = Distribution{Hiring: 40, Rental: 60}

// computeCounts splits total posts across kinds per the distribution.
// Rounding remainders land on the rental side.
func computeCounts(total int, d Distribution) (hiring, rental int) {
	hiring = total * d.Hiring / 100
	rental = total - hiring
	return hiring, rental
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	preset := DefaultPreset
	if opts.Preset != nil {
		preset = *opts.Preset
	}
	if err := EnsureTaxonomy(db, preset); err != nil {
		return fmt.Errorf("failed to ensure taxonomy: %w", err)
	}

	var skills []models.Skill
	if err := db.Find(&skills).Error; err != nil {
		return fmt.Errorf("failed to load skills: %w", err)
	}
	var categories []models.Category
	if err := db.Find(&categories).Error; err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	factory := NewFactory(db, SeedOptions{DryRun: opts.DryRun, SkipBcrypt: opts.SkipBcrypt})

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d test users created", len(users))

	posts, err := createPosts(factory, users, skills, categories, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	reviews, bookings, err := createActivity(factory, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	log.Printf("%d reviews and %d bookings created", reviews, bookings)

	log.Println("Database seeding completed successfully")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE media, reviews, bookings, post_skills, post_categories,
		hiring_posts, rental_posts, posts, profiles, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include some specific accounts for predictable logins
	if count >= 3 {
		base := []struct {
			username string
			staff    bool
		}{
			{username: "somchai", staff: false},
			{username: "malee", staff: false},
			{username: "admin", staff: true},
		}
		for _, b := range base {
			b := b
			user, err := factory.CreateUser(func(u *models.User) {
				u.Username = b.username
				u.Email = fmt.Sprintf("%s@dome.tu.ac.th", b.username)
				u.IsStaff = b.staff
			})
			if err != nil {
				log.Printf("Failed to create base user %s: %v", b.username, err)
				continue
			}
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createPosts(factory *Factory, users []*models.User, skills []models.Skill, categories []models.Category, count int) ([]*models.Post, error) {
	if len(users) == 0 || count == 0 {
		return nil, nil
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	hiringCount, rentalCount := computeCounts(count, defaultDistribution)

	posts := make([]*models.Post, 0, count)
	for i := 0; i < hiringCount; i++ {
		author := users[r.Intn(len(users))]
		posts = append(posts, factory.BuildHiringPost(author, skills))
	}
	for i := 0; i < rentalCount; i++ {
		author := users[r.Intn(len(users))]
		posts = append(posts, factory.BuildRentalPost(author, categories))
	}

	if err := factory.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// createActivity scatters reviews and bookings over the seeded posts.
// A user never reviews or books their own post, and reviews stay unique
// per (post, author).
func createActivity(factory *Factory, users []*models.User, posts []*models.Post) (reviews, bookings int, err error) {
	if len(users) < 2 || len(posts) == 0 {
		return 0, 0, nil
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, post := range posts {
		reviewed := map[uint]struct{}{}
		for i := 0; i < r.Intn(4); i++ {
			reviewer := users[r.Intn(len(users))]
			if reviewer.ID == post.AuthorID {
				continue
			}
			if _, ok := reviewed[reviewer.ID]; ok {
				continue
			}
			reviewed[reviewer.ID] = struct{}{}
			if _, err := factory.CreateReview(reviewer, post); err != nil {
				return reviews, bookings, err
			}
			reviews++
		}

		if r.Intn(10) < 3 {
			booker := users[r.Intn(len(users))]
			if booker.ID == post.AuthorID {
				continue
			}
			if _, err := factory.CreateBooking(booker, post); err != nil {
				return reviews, bookings, err
			}
			bookings++
		}
	}
	return reviews, bookings, nil
}
