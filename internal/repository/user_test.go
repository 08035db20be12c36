package repository

import (
	"context"
	"regexp"
	"testing"

	"domemarket/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		email        string
		mockBehavior func()
		expectNil    bool
	}{
		{
			name:  "Found",
			email: "somchai@dome.tu.ac.th",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 AND "users"."deleted_at" IS NULL ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("somchai@dome.tu.ac.th", 1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).
						AddRow(1, "somchai", "somchai@dome.tu.ac.th"))
			},
		},
		{
			name:  "NotFound",
			email: "nobody@dome.tu.ac.th",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 AND "users"."deleted_at" IS NULL ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("nobody@dome.tu.ac.th", 1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByEmail(ctx, tt.email)

			assert.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, user)
			} else {
				assert.Equal(t, tt.email, user.Email)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Create_DuplicateBecomesValidationError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(errString(`duplicate key value violates unique constraint "idx_users_email"`))
	mock.ExpectRollback()

	err := repo.Create(ctx, &models.User{Username: "somchai", Email: "somchai@dome.tu.ac.th", Password: "x"})
	assert.Error(t, err)

	var appErr *models.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want bool
	}{
		{"PostgresDuplicateKey", `duplicate key value violates unique constraint "idx_users_email"`, true},
		{"SQLState", "ERROR: 23505", true},
		{"Unrelated", "connection refused", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueConstraintError(errString(tt.msg)))
		})
	}
	assert.False(t, isUniqueConstraintError(nil))
}

type errString string

func (e errString) Error() string { return string(e) }
