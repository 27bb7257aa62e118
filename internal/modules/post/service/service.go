package post

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nga.at/communityforum/internal/entity"
	categoryRepo "nga.at/communityforum/internal/modules/category/repository"
	postDto "nga.at/communityforum/internal/modules/post/dto"
	postRepo "nga.at/communityforum/internal/modules/post/repository"
	reactionRepo "nga.at/communityforum/internal/modules/reaction/repository"
	"nga.at/communityforum/pkg/apperror"
	commonDto "nga.at/communityforum/pkg/dto"
)

const likeReaction = "like"

type PostService interface {
	CreatePost(ctx context.Context, userID uuid.UUID, req postDto.CreatePostRequest) (*postDto.PostListItem, error)
	GetPostsByCategory(ctx context.Context, categoryID uuid.UUID, filter commonDto.PageFilter) (*postDto.PaginatedPostsResponse, error)
	GetPostByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*postDto.PostDetailResponse, error)
	AddComment(ctx context.Context, userID uuid.UUID, postID uuid.UUID, req postDto.CreateCommentRequest) (*postDto.CommentResponse, error)
}

type postService struct {
	repo         postRepo.PostRepository
	categoryRepo categoryRepo.CategoryRepository
	reactionRepo reactionRepo.ReactionRepository
}

func NewPostService(repo postRepo.PostRepository, categoryRepo categoryRepo.CategoryRepository, reactionRepo reactionRepo.ReactionRepository) PostService {
	return &postService{
		repo:         repo,
		categoryRepo: categoryRepo,
		reactionRepo: reactionRepo,
	}
}

func (s *postService) CreatePost(ctx context.Context, userID uuid.UUID, req postDto.CreatePostRequest) (*postDto.PostListItem, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("category does not exist")
		}
		return nil, err
	}

	post := &entity.Post{
		CategoryID: req.CategoryID,
		UserID:     userID,
		Title:      req.Title,
		Content:    req.Content,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	item := toListItem(created, 0, 0)
	return &item, nil
}

func (s *postService) GetPostsByCategory(ctx context.Context, categoryID uuid.UUID, filter commonDto.PageFilter) (*postDto.PaginatedPostsResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category not found")
		}
		return nil, err
	}

	filter.Normalize()
	offset := (filter.Page - 1) * filter.Limit

	posts, total, err := s.repo.FindByCategoryID(ctx, categoryID, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	postIDs := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	likeCounts, err := s.reactionRepo.CountByTargetIDs(ctx, entity.TargetPost, postIDs, likeReaction)
	if err != nil {
		return nil, err
	}

	commentCounts, err := s.repo.CommentCountsByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	items := make([]postDto.PostListItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, toListItem(p, likeCounts[p.ID], commentCounts[p.ID]))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return &postDto.PaginatedPostsResponse{
		Data: items,
		Meta: commonDto.PaginationMeta{
			CurrentPage: filter.Page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       filter.Limit,
		},
	}, nil
}

func (s *postService) GetPostByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*postDto.PostDetailResponse, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, err
	}

	// Every read counts as a view, deliberately not deduplicated per viewer.
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	post.ViewsCount++

	comments, err := s.repo.FindCommentsByPostID(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.reactionRepo.CountsForTarget(ctx, entity.TargetPost, id)
	if err != nil {
		return nil, err
	}

	var userReacted *string
	if userID != nil {
		userReacted, err = s.reactionRepo.UserReaction(ctx, *userID, entity.TargetPost, id)
		if err != nil {
			return nil, err
		}
	}

	commentResponses := make([]postDto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		commentResponses = append(commentResponses, toCommentResponse(comment))
	}

	return &postDto.PostDetailResponse{
		ID:           post.ID,
		CategoryID:   post.CategoryID,
		CategoryName: post.Category.Name,
		Title:        post.Title,
		Content:      post.Content,
		Author:       toAuthor(&post.User),
		ViewsCount:   post.ViewsCount,
		IsPinned:     post.IsPinned,
		Comments:     commentResponses,
		Reactions: commonDto.ReactionsResponse{
			Counts:      counts,
			UserReacted: userReacted,
		},
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}, nil
}

func (s *postService) AddComment(ctx context.Context, userID uuid.UUID, postID uuid.UUID, req postDto.CreateCommentRequest) (*postDto.CommentResponse, error) {
	if _, err := s.repo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, err
	}

	if req.ParentCommentID != nil {
		parent, err := s.repo.FindCommentByID(ctx, *req.ParentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.BadRequest("parent comment not found")
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, apperror.BadRequest("parent comment belongs to another post")
		}
	}

	comment := &entity.Comment{
		PostID:          postID,
		UserID:          userID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.repo.FindCommentByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	resp := toCommentResponse(created)
	return &resp, nil
}

func toListItem(post *entity.Post, likeCount, commentCount int64) postDto.PostListItem {
	return postDto.PostListItem{
		ID:           post.ID,
		CategoryID:   post.CategoryID,
		Title:        post.Title,
		Content:      post.Content,
		Author:       toAuthor(&post.User),
		ViewsCount:   post.ViewsCount,
		IsPinned:     post.IsPinned,
		LikeCount:    likeCount,
		CommentCount: commentCount,
		CreatedAt:    post.CreatedAt,
	}
}

func toCommentResponse(comment *entity.Comment) postDto.CommentResponse {
	return postDto.CommentResponse{
		ID:              comment.ID,
		PostID:          comment.PostID,
		Content:         comment.Content,
		ParentCommentID: comment.ParentCommentID,
		Author:          toAuthor(&comment.User),
		CreatedAt:       comment.CreatedAt,
	}
}

func toAuthor(user *entity.User) commonDto.AuthorResponse {
	return commonDto.AuthorResponse{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
