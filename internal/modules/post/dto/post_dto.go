package dto

import (
	"time"

	"github.com/google/uuid"
	commonDto "nga.at/communityforum/pkg/dto"
)

type CreatePostRequest struct {
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
	Title      string    `json:"title" binding:"required,max=255"`
	Content    string    `json:"content" binding:"required"`
}

type CreateCommentRequest struct {
	Content         string     `json:"content" binding:"required"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id,omitempty"`
}

type PostListItem struct {
	ID           uuid.UUID               `json:"id"`
	CategoryID   uuid.UUID               `json:"category_id"`
	Title        string                  `json:"title"`
	Content      string                  `json:"content"`
	Author       commonDto.AuthorResponse `json:"author"`
	ViewsCount   int64                   `json:"views_count"`
	IsPinned     bool                    `json:"is_pinned"`
	LikeCount    int64                   `json:"like_count"`
	CommentCount int64                   `json:"comment_count"`
	CreatedAt    time.Time               `json:"created_at"`
}

type PaginatedPostsResponse struct {
	Data []PostListItem           `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

type CommentResponse struct {
	ID              uuid.UUID                `json:"id"`
	PostID          uuid.UUID                `json:"post_id"`
	Content         string                   `json:"content"`
	ParentCommentID *uuid.UUID               `json:"parent_comment_id,omitempty"`
	Author          commonDto.AuthorResponse `json:"author"`
	CreatedAt       time.Time                `json:"created_at"`
}

type PostDetailResponse struct {
	ID           uuid.UUID                   `json:"id"`
	CategoryID   uuid.UUID                   `json:"category_id"`
	CategoryName string                      `json:"category_name"`
	Title        string                      `json:"title"`
	Content      string                      `json:"content"`
	Author       commonDto.AuthorResponse    `json:"author"`
	ViewsCount   int64                       `json:"views_count"`
	IsPinned     bool                        `json:"is_pinned"`
	Comments     []CommentResponse           `json:"comments"`
	Reactions    commonDto.ReactionsResponse `json:"reactions"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}
