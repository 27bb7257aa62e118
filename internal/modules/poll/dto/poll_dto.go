package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePollRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description" binding:"max=2000"`
	Options     []string   `json:"options" binding:"required,min=2,dive,required,max=255"`
	PollType    string     `json:"poll_type" binding:"omitempty,max=30"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsPublic    *bool      `json:"is_public,omitempty"`
}

type UpdatePollRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type VoteRequest struct {
	OptionID uuid.UUID `json:"option_id" binding:"required"`
}

type PollSummary struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PollType    string     `json:"poll_type"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsPublic    bool       `json:"is_public"`
	IsActive    bool       `json:"is_active"`
	CreatorName string     `json:"creator_name"`
	TotalVotes  int64      `json:"total_votes"`
	CreatedAt   time.Time  `json:"created_at"`
}

type PollOptionResponse struct {
	ID          uuid.UUID `json:"id"`
	OptionText  string    `json:"option_text"`
	OptionOrder int       `json:"option_order"`
	VoteCount   int64     `json:"vote_count"`
}

type PollDetailResponse struct {
	Poll       PollSummary          `json:"poll"`
	Options    []PollOptionResponse `json:"options"`
	UserVote   *uuid.UUID           `json:"user_vote"`
	TotalVotes int64                `json:"total_votes"`
}

type PollOptionResult struct {
	ID          uuid.UUID `json:"id"`
	OptionText  string    `json:"option_text"`
	OptionOrder int       `json:"option_order"`
	VoteCount   int64     `json:"vote_count"`
	// Percentage is null when the poll has no votes yet.
	Percentage *float64 `json:"percentage"`
}

type PollResultsResponse struct {
	Results    []PollOptionResult `json:"results"`
	TotalVotes int64              `json:"total_votes"`
	Timestamp  time.Time          `json:"timestamp"`
}
