package category

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"nga.at/communityforum/internal/entity"
	"nga.at/communityforum/internal/modules/category/dto"
	"nga.at/communityforum/internal/modules/category/repository"
	"nga.at/communityforum/pkg/apperror"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Post{},
	))
	return db
}

func newTestService(t *testing.T) (CategoryService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	return NewCategoryService(repository.NewCategoryRepository(db)), db
}

func TestCreateCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{
		Name:        "General",
		Description: "General discussion",
		Color:       "#6c757d",
	})
	require.NoError(t, err)
	assert.Equal(t, "General", created.Name)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "General"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "General"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestGetAllCategoriesWithPostCounts(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := &entity.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	general, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "General"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Announcements"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&entity.Post{
			CategoryID: general.ID,
			UserID:     user.ID,
			Title:      "Post",
			Content:    "body",
		}).Error)
	}

	categories, err := svc.GetAllCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	// Alphabetical order.
	assert.Equal(t, "Announcements", categories[0].Name)
	assert.Equal(t, int64(0), categories[0].PostCount)
	assert.Equal(t, "General", categories[1].Name)
	assert.Equal(t, int64(2), categories[1].PostCount)
}

func TestDeleteCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Temp"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, created.ID))

	err = svc.DeleteCategory(ctx, created.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.DeleteCategory(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
