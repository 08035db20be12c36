package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"domemarket/internal/models"
	"domemarket/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateReview(t *testing.T) {
	app := fiber.New()
	mockPosts := new(MockPostRepository)
	mockReviews := new(MockReviewRepository)
	s := newTestServer(mockPosts, new(MockUserRepository), mockReviews, "")

	app.Use(authAs(7))
	app.Post("/posts/:id/reviews", s.CreateReview)

	mockPosts.On("GetByID", mock.Anything, uint(1), uint(7)).
		Return(&models.Post{ID: 1, AuthorID: 2}, nil)
	mockPosts.On("GetByID", mock.Anything, uint(5), uint(7)).
		Return(&models.Post{ID: 5, AuthorID: 7}, nil)

	tests := []struct {
		name           string
		path           string
		body           map[string]any
		mockSetup      func()
		expectedStatus int
	}{
		{
			name: "Success",
			path: "/posts/1/reviews",
			body: map[string]any{"rating": 4, "comment": "Quick and careful"},
			mockSetup: func() {
				mockReviews.On("Upsert", mock.Anything, mock.Anything).Return(nil)
				mockReviews.On("GetByPostAndAuthor", mock.Anything, uint(1), uint(7)).
					Return(&models.Review{ID: 1, PostID: 1, AuthorID: 7, Rating: 4, Comment: "Quick and careful"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Rating Out Of Range",
			path:           "/posts/1/reviews",
			body:           map[string]any{"rating": 6},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Own Post",
			path:           "/posts/5/reviews",
			body:           map[string]any{"rating": 5},
			mockSetup:      func() {},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestGetReviews(t *testing.T) {
	app := fiber.New()
	mockPosts := new(MockPostRepository)
	mockReviews := new(MockReviewRepository)
	s := newTestServer(mockPosts, new(MockUserRepository), mockReviews, "")

	app.Get("/posts/:id/reviews", s.GetReviews)

	mockPosts.On("GetByID", mock.Anything, uint(1), uint(0)).
		Return(&models.Post{ID: 1, AuthorID: 2}, nil)
	mockReviews.On("ListByPost", mock.Anything, uint(1), 20, 0).
		Return([]*models.Review{
			{ID: 2, PostID: 1, AuthorID: 9, Rating: 5},
			{ID: 1, PostID: 1, AuthorID: 7, Rating: 4},
		}, nil)
	mockReviews.On("Aggregate", mock.Anything, uint(1)).
		Return(&repository.ReviewAggregate{Count: 2, AverageRating: 4.5}, nil)

	req := httptest.NewRequest(http.MethodGet, "/posts/1/reviews", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Reviews       []models.Review `json:"reviews"`
		Count         int             `json:"count"`
		AverageRating float64         `json:"average_rating"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Len(t, parsed.Reviews, 2)
	assert.Equal(t, 2, parsed.Count)
	assert.InDelta(t, 4.5, parsed.AverageRating, 0.001)
}

func TestGetReviews_UnknownPost(t *testing.T) {
	app := fiber.New()
	mockPosts := new(MockPostRepository)
	s := newTestServer(mockPosts, new(MockUserRepository), new(MockReviewRepository), "")

	app.Get("/posts/:id/reviews", s.GetReviews)

	mockPosts.On("GetByID", mock.Anything, uint(42), uint(0)).
		Return(nil, models.NewNotFoundError("Post", uint(42)))

	req := httptest.NewRequest(http.MethodGet, "/posts/42/reviews", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
