package server

import (
	"context"

	"domemarket/internal/config"
	"domemarket/internal/featureflags"
	"domemarket/internal/models"
	"domemarket/internal/repository"
	"domemarket/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	args := m.Called(ctx, id, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, authorID, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListByKind(ctx context.Context, kind models.PostKind, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, kind, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) CountByKind(ctx context.Context, kind models.PostKind) (int64, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) Recent(ctx context.Context, kind models.PostKind, n int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, kind, n, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) SearchHiring(ctx context.Context, query string, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, query, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) SearchRental(ctx context.Context, query string, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, query, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) AddMedia(ctx context.Context, media *models.Media) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MockPostRepository) IsBooked(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Book(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockPostRepository) Unbook(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockPostRepository) SkillsByName(ctx context.Context, names []string) ([]models.Skill, error) {
	args := m.Called(ctx, names)
	return args.Get(0).([]models.Skill), args.Error(1)
}

func (m *MockPostRepository) CategoriesByName(ctx context.Context, names []string) ([]models.Category, error) {
	args := m.Called(ctx, names)
	return args.Get(0).([]models.Category), args.Error(1)
}

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockUserRepository) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// MockReviewRepository is a mock of the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Upsert(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByPostAndAuthor(ctx context.Context, postID, authorID uint) (*models.Review, error) {
	args := m.Called(ctx, postID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Review, error) {
	args := m.Called(ctx, postID, limit, offset)
	return args.Get(0).([]*models.Review), args.Error(1)
}

func (m *MockReviewRepository) Aggregate(ctx context.Context, postID uint) (*repository.ReviewAggregate, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ReviewAggregate), args.Error(1)
}

// newTestServer wires a Server around mock repositories. featureFlags is
// the raw flag string, e.g. "eligible_email=on".
func newTestServer(posts *MockPostRepository, users *MockUserRepository, reviews *MockReviewRepository, featureFlags string) *Server {
	cfg := &config.Config{
		JWTSecret:           "test-secret",
		DefaultImageURL:     "/static/img/default.png",
		EligibleEmailDomain: "dome.tu.ac.th",
		FeatureFlags:        featureFlags,
	}

	s := &Server{
		config:       cfg,
		userRepo:     users,
		postRepo:     posts,
		reviewRepo:   reviews,
		featureFlags: featureflags.NewManager(cfg.FeatureFlags),
	}

	presenter := service.NewPresenter(cfg.DefaultImageURL)
	s.postService = service.NewPostService(posts, users, s.featureFlags, cfg.EligibleEmailDomain)
	s.listingService = service.NewListingService(posts, presenter)
	s.reviewService = service.NewReviewService(reviews, posts)
	s.userService = service.NewUserService(users, posts)
	s.mediaService = service.NewMediaService(posts, cfg)
	return s
}
