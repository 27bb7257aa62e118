package post

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"nga.at/communityforum/internal/entity"
	categoryRepo "nga.at/communityforum/internal/modules/category/repository"
	postDto "nga.at/communityforum/internal/modules/post/dto"
	postRepo "nga.at/communityforum/internal/modules/post/repository"
	reactionRepo "nga.at/communityforum/internal/modules/reaction/repository"
	"nga.at/communityforum/pkg/apperror"
	commonDto "nga.at/communityforum/pkg/dto"
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
		&entity.Comment{},
		&entity.Reaction{},
	))
	return db
}

func newTestService(t *testing.T) (PostService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	svc := NewPostService(
		postRepo.NewPostRepository(db),
		categoryRepo.NewCategoryRepository(db),
		reactionRepo.NewReactionRepository(db),
	)
	return svc, db
}

func seedFixtures(t *testing.T, db *gorm.DB) (*entity.User, *entity.Category) {
	t.Helper()

	user := &entity.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)

	category := &entity.Category{Name: "General"}
	require.NoError(t, db.Create(category).Error)

	return user, category
}

func TestCreatePostUnknownCategory(t *testing.T) {
	svc, db := newTestService(t)
	user, _ := seedFixtures(t, db)

	_, err := svc.CreatePost(context.Background(), user.ID, postDto.CreatePostRequest{
		CategoryID: uuid.New(),
		Title:      "Orphan",
		Content:    "No home for this one",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestCreatePostReturnsAuthor(t *testing.T) {
	svc, db := newTestService(t)
	user, category := seedFixtures(t, db)

	created, err := svc.CreatePost(context.Background(), user.ID, postDto.CreatePostRequest{
		CategoryID: category.ID,
		Title:      "Hello",
		Content:    "First post",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", created.Title)
	assert.Equal(t, "alice", created.Author.Username)
	assert.Equal(t, int64(0), created.ViewsCount)
}

func TestGetPostByIDIncrementsViews(t *testing.T) {
	svc, db := newTestService(t)
	user, category := seedFixtures(t, db)
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, user.ID, postDto.CreatePostRequest{
		CategoryID: category.ID,
		Title:      "Hello",
		Content:    "First post",
	})
	require.NoError(t, err)

	detail, err := svc.GetPostByID(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.ViewsCount)
	assert.Equal(t, "General", detail.CategoryName)

	detail, err = svc.GetPostByID(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.ViewsCount)
}

func TestGetPostByIDNotFound(t *testing.T) {
	svc, db := newTestService(t)
	seedFixtures(t, db)

	_, err := svc.GetPostByID(context.Background(), uuid.New(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetPostsByCategoryPinnedFirst(t *testing.T) {
	svc, db := newTestService(t)
	user, category := seedFixtures(t, db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreatePost(ctx, user.ID, postDto.CreatePostRequest{
			CategoryID: category.ID,
			Title:      fmt.Sprintf("Post %d", i),
			Content:    "body",
		})
		require.NoError(t, err)
	}

	pinned, err := svc.CreatePost(ctx, user.ID, postDto.CreatePostRequest{
		CategoryID: category.ID,
		Title:      "Pinned",
		Content:    "body",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&entity.Post{}).
		Where("id = ?", pinned.ID).
		Update("is_pinned", true).Error)

	page, err := svc.GetPostsByCategory(ctx, category.ID, commonDto.PageFilter{})
	require.NoError(t, err)
	require.Len(t, page.Data, 4)
	assert.Equal(t, "Pinned", page.Data[0].Title)
	assert.True(t, page.Data[0].IsPinned)
}

func TestGetPostsByCategoryPagination(t *testing.T) {
	svc, db := newTestService(t)
	user, category := seedFixtures(t, db)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.CreatePost(ctx, user.ID, postDto.CreatePostRequest{
			CategoryID: category.ID,
			Title:      fmt.Sprintf("Post %d", i),
			Content:    "body",
		})
		require.NoError(t, err)
	}

	page, err := svc.GetPostsByCategory(ctx, category.ID, commonDto.PageFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, 1, page.Meta.CurrentPage)
	assert.Equal(t, 2, page.Meta.TotalPages)
	assert.Equal(t, int64(12), page.Meta.TotalItems)

	page, err = svc.GetPostsByCategory(ctx, category.ID, commonDto.PageFilter{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 2, page.Meta.CurrentPage)
}

func TestGetPostsByCategoryUnknownCategory(t *testing.T) {
	svc, db := newTestService(t)
	seedFixtures(t, db)

	_, err := svc.GetPostsByCategory(context.Background(), uuid.New(), commonDto.PageFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAddComment(t *testing.T) {
	svc, db := newTestService(t)
	user, category := seedFixtures(t, db)
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, user.ID, postDto.CreatePostRequest{
		CategoryID: category.ID,
		Title:      "Hello",
		Content:    "First post",
	})
	require.NoError(t, err)

	comment, err := svc.AddComment(ctx, user.ID, created.ID, postDto.CreateCommentRequest{
		Content: "Nice one",
	})
	require.NoError(t, err)
	assert.Equal(t, "Nice one", comment.Content)
	assert.Equal(t, "alice", comment.Author.Username)
	assert.Nil(t, comment.ParentCommentID)

	reply, err := svc.AddComment(ctx, user.ID, created.ID, postDto.CreateCommentRequest{
		Content:         "Replying",
		ParentCommentID: &comment.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, comment.ID, *reply.ParentCommentID)
}

func TestAddCommentValidation(t *testing.T) {
	svc, db := newTestService(t)
	user, category := seedFixtures(t, db)
	ctx := context.Background()

	_, err := svc.AddComment(ctx, user.ID, uuid.New(), postDto.CreateCommentRequest{Content: "Lost"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	first, err := svc.CreatePost(ctx, user.ID, postDto.CreatePostRequest{
		CategoryID: category.ID, Title: "First", Content: "body",
	})
	require.NoError(t, err)
	second, err := svc.CreatePost(ctx, user.ID, postDto.CreatePostRequest{
		CategoryID: category.ID, Title: "Second", Content: "body",
	})
	require.NoError(t, err)

	unknownParent := uuid.New()
	_, err = svc.AddComment(ctx, user.ID, first.ID, postDto.CreateCommentRequest{
		Content:         "Orphan reply",
		ParentCommentID: &unknownParent,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	// A reply cannot target a comment on a different post.
	comment, err := svc.AddComment(ctx, user.ID, second.ID, postDto.CreateCommentRequest{Content: "Elsewhere"})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, user.ID, first.ID, postDto.CreateCommentRequest{
		Content:         "Cross-post reply",
		ParentCommentID: &comment.ID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestGetPostByIDIncludesComments(t *testing.T) {
	svc, db := newTestService(t)
	user, category := seedFixtures(t, db)
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, user.ID, postDto.CreatePostRequest{
		CategoryID: category.ID, Title: "Hello", Content: "body",
	})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, user.ID, created.ID, postDto.CreateCommentRequest{Content: "First"})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, user.ID, created.ID, postDto.CreateCommentRequest{Content: "Second"})
	require.NoError(t, err)

	detail, err := svc.GetPostByID(ctx, created.ID, nil)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	// Oldest first.
	assert.Equal(t, "First", detail.Comments[0].Content)
	assert.Equal(t, "Second", detail.Comments[1].Content)
}
