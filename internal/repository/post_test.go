package repository

import (
	"context"
	"regexp"
	"testing"

	"domemarket/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostRepository_CountByKind(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts" WHERE kind = $1`)).
		WithArgs("hiring").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(14))

	count, err := repo.CountByKind(ctx, models.KindHiring)
	assert.NoError(t, err)
	assert.Equal(t, int64(14), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_IsBooked(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "bookings" WHERE user_id = $1 AND post_id = $2`)).
		WithArgs(3, 7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	booked, err := repo.IsBooked(ctx, 3, 7)
	assert.NoError(t, err)
	assert.True(t, booked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Book(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, repo.Book(ctx, 3, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Book_AlreadyBookedIsNoop(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	// ON CONFLICT DO NOTHING reports zero affected rows; still not an error.
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Book(ctx, 3, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_SearchHiring(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT .* FROM "posts" WHERE kind = \$1 AND \(title ILIKE \$2 OR description ILIKE \$3 OR EXISTS`).
		WithArgs("hiring", "%tutor%", "%tutor%", "%tutor%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "kind", "review_count", "average_rating", "booked"}).
			AddRow(5, "Math tutor wanted", "hiring", 2, 4.5, false))

	// Preloads run after the main query, one per association.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "hiring_posts" WHERE "hiring_posts"."post_id" = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "budget_min", "budget_max"}).AddRow(5, 100, 500))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "media" WHERE "media"."post_id" = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id"}))

	posts, err := repo.SearchHiring(ctx, "tutor", 0)
	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, "Math tutor wanted", posts[0].Title)
	assert.Equal(t, 2, posts[0].ReviewCount)
	assert.InDelta(t, 4.5, posts[0].AverageRating, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}
