package seed

import (
	"testing"

	"domemarket/internal/database"
	"domemarket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestComputeCounts_Default(t *testing.T) {
	hiring, rental := computeCounts(10, defaultDistribution)
	assert.Equal(t, 10, hiring+rental)
	assert.Equal(t, 4, hiring)
	assert.Equal(t, 6, rental)
}

func TestComputeCounts_RemainderGoesToRental(t *testing.T) {
	hiring, rental := computeCounts(7, defaultDistribution)
	assert.Equal(t, 7, hiring+rental)
	assert.Equal(t, 2, hiring)
	assert.Equal(t, 5, rental)
}

func setupSeedDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestEnsureTaxonomy_Idempotent(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, EnsureTaxonomy(db, DefaultPreset))
	require.NoError(t, EnsureTaxonomy(db, DefaultPreset))

	var categoryCount, skillCount int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categoryCount).Error)
	require.NoError(t, db.Model(&models.Skill{}).Count(&skillCount).Error)
	assert.Equal(t, int64(len(DefaultPreset.Categories)), categoryCount)
	assert.Equal(t, int64(len(DefaultPreset.Skills)), skillCount)
}

func TestSeed_PopulatesMarketplace(t *testing.T) {
	db := setupSeedDB(t)

	err := Seed(db, Options{NumUsers: 5, NumPosts: 10, SkipBcrypt: true})
	require.NoError(t, err)

	var userCount, postCount, hiringCount, rentalCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.HiringPost{}).Count(&hiringCount).Error)
	require.NoError(t, db.Model(&models.RentalPost{}).Count(&rentalCount).Error)

	assert.Equal(t, int64(5), userCount)
	assert.Equal(t, int64(10), postCount)
	assert.Equal(t, int64(4), hiringCount)
	assert.Equal(t, int64(6), rentalCount)

	// Base accounts exist with predictable usernames
	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, admin.IsStaff)

	// No user reviews their own post
	var selfReviews int64
	require.NoError(t, db.Model(&models.Review{}).
		Joins("JOIN posts ON posts.id = reviews.post_id").
		Where("posts.author_id = reviews.author_id").
		Count(&selfReviews).Error)
	assert.Zero(t, selfReviews)
}
