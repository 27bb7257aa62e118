package poll

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nga.at/communityforum/internal/entity"
	pollDto "nga.at/communityforum/internal/modules/poll/dto"
	pollRepo "nga.at/communityforum/internal/modules/poll/repository"
	"nga.at/communityforum/pkg/apperror"
)

const minPollOptions = 2

type PollService interface {
	CreatePoll(ctx context.Context, creatorID uuid.UUID, req pollDto.CreatePollRequest) (*pollDto.PollDetailResponse, error)
	GetPolls(ctx context.Context) ([]pollDto.PollSummary, error)
	GetMyPolls(ctx context.Context, creatorID uuid.UUID) ([]pollDto.PollSummary, error)
	GetPollByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*pollDto.PollDetailResponse, error)
	Vote(ctx context.Context, userID, pollID uuid.UUID, req pollDto.VoteRequest) error
	GetPollResults(ctx context.Context, id uuid.UUID) (*pollDto.PollResultsResponse, error)
	UpdatePoll(ctx context.Context, userID, pollID uuid.UUID, req pollDto.UpdatePollRequest) (*pollDto.PollSummary, error)
	DeletePoll(ctx context.Context, userID, pollID uuid.UUID) error
}

type pollService struct {
	repo pollRepo.PollRepository
}

func NewPollService(repo pollRepo.PollRepository) PollService {
	return &pollService{repo: repo}
}

func (s *pollService) CreatePoll(ctx context.Context, creatorID uuid.UUID, req pollDto.CreatePollRequest) (*pollDto.PollDetailResponse, error) {
	if len(req.Options) < minPollOptions {
		return nil, apperror.BadRequest("a poll needs at least 2 options")
	}

	poll := &entity.Poll{
		CreatorID:   creatorID,
		Title:       req.Title,
		Description: req.Description,
		EndDate:     req.EndDate,
		IsPublic:    true,
		IsActive:    true,
	}
	if req.PollType != "" {
		poll.PollType = req.PollType
	}
	if req.IsPublic != nil {
		poll.IsPublic = *req.IsPublic
	}

	options := make([]*entity.PollOption, 0, len(req.Options))
	for i, text := range req.Options {
		options = append(options, &entity.PollOption{
			OptionText:  text,
			OptionOrder: i,
		})
	}

	if err := s.repo.CreateWithOptions(ctx, poll, options); err != nil {
		return nil, err
	}

	return s.GetPollByID(ctx, poll.ID, &creatorID)
}

func (s *pollService) GetPolls(ctx context.Context) ([]pollDto.PollSummary, error) {
	polls, err := s.repo.FindPublicActive(ctx)
	if err != nil {
		return nil, err
	}
	return toSummaries(polls), nil
}

func (s *pollService) GetMyPolls(ctx context.Context, creatorID uuid.UUID) ([]pollDto.PollSummary, error) {
	polls, err := s.repo.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	return toSummaries(polls), nil
}

func (s *pollService) GetPollByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*pollDto.PollDetailResponse, error) {
	poll, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("poll not found")
		}
		return nil, err
	}

	options, err := s.repo.FindOptionsWithCounts(ctx, id)
	if err != nil {
		return nil, err
	}

	var totalVotes int64
	optionResponses := make([]pollDto.PollOptionResponse, 0, len(options))
	for _, option := range options {
		totalVotes += option.VoteCount
		optionResponses = append(optionResponses, pollDto.PollOptionResponse{
			ID:          option.ID,
			OptionText:  option.OptionText,
			OptionOrder: option.OptionOrder,
			VoteCount:   option.VoteCount,
		})
	}

	var userVote *uuid.UUID
	if userID != nil {
		vote, err := s.repo.FindUserVote(ctx, *userID, id)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if vote != nil {
			userVote = &vote.OptionID
		}
	}

	return &pollDto.PollDetailResponse{
		Poll: pollDto.PollSummary{
			ID:          poll.ID,
			Title:       poll.Title,
			Description: poll.Description,
			PollType:    poll.PollType,
			EndDate:     poll.EndDate,
			IsPublic:    poll.IsPublic,
			IsActive:    poll.IsActive,
			CreatorName: poll.Creator.Username,
			TotalVotes:  totalVotes,
			CreatedAt:   poll.CreatedAt,
		},
		Options:    optionResponses,
		UserVote:   userVote,
		TotalVotes: totalVotes,
	}, nil
}

func (s *pollService) Vote(ctx context.Context, userID, pollID uuid.UUID, req pollDto.VoteRequest) error {
	poll, err := s.repo.FindByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("poll not found or not active")
		}
		return err
	}
	if !poll.IsActive {
		return apperror.NotFound("poll not found or not active")
	}
	if poll.EndDate != nil && poll.EndDate.Before(time.Now()) {
		return apperror.BadRequest("poll has already ended")
	}

	if _, err := s.repo.FindOption(ctx, req.OptionID, pollID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.BadRequest("invalid poll option")
		}
		return err
	}

	if _, err := s.repo.FindUserVote(ctx, userID, pollID); err == nil {
		return apperror.BadRequest("you have already voted on this poll")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	vote := &entity.UserVote{
		UserID:   userID,
		PollID:   pollID,
		OptionID: req.OptionID,
	}

	if err := s.repo.CreateVote(ctx, vote); err != nil {
		// A concurrent vote can slip past the existence check; the
		// unique index on (user_id, poll_id) is the arbiter.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.BadRequest("you have already voted on this poll")
		}
		return err
	}

	return nil
}

func (s *pollService) GetPollResults(ctx context.Context, id uuid.UUID) (*pollDto.PollResultsResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("poll not found")
		}
		return nil, err
	}

	options, err := s.repo.FindOptionsWithCounts(ctx, id)
	if err != nil {
		return nil, err
	}

	var totalVotes int64
	for _, option := range options {
		totalVotes += option.VoteCount
	}

	results := make([]pollDto.PollOptionResult, 0, len(options))
	for _, option := range options {
		var percentage *float64
		if totalVotes > 0 {
			v := math.Round(float64(option.VoteCount)*10000/float64(totalVotes)) / 100
			percentage = &v
		}
		results = append(results, pollDto.PollOptionResult{
			ID:          option.ID,
			OptionText:  option.OptionText,
			OptionOrder: option.OptionOrder,
			VoteCount:   option.VoteCount,
			Percentage:  percentage,
		})
	}

	return &pollDto.PollResultsResponse{
		Results:    results,
		TotalVotes: totalVotes,
		Timestamp:  time.Now(),
	}, nil
}

func (s *pollService) UpdatePoll(ctx context.Context, userID, pollID uuid.UUID, req pollDto.UpdatePollRequest) (*pollDto.PollSummary, error) {
	poll, err := s.repo.FindByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("poll not found")
		}
		return nil, err
	}
	if poll.CreatorID != userID {
		return nil, apperror.Forbidden("only the poll creator can update this poll")
	}

	if req.Title != nil {
		poll.Title = *req.Title
	}
	if req.Description != nil {
		poll.Description = *req.Description
	}
	if req.IsActive != nil {
		poll.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, poll); err != nil {
		return nil, err
	}

	options, err := s.repo.FindOptionsWithCounts(ctx, pollID)
	if err != nil {
		return nil, err
	}
	var totalVotes int64
	for _, option := range options {
		totalVotes += option.VoteCount
	}

	return &pollDto.PollSummary{
		ID:          poll.ID,
		Title:       poll.Title,
		Description: poll.Description,
		PollType:    poll.PollType,
		EndDate:     poll.EndDate,
		IsPublic:    poll.IsPublic,
		IsActive:    poll.IsActive,
		CreatorName: poll.Creator.Username,
		TotalVotes:  totalVotes,
		CreatedAt:   poll.CreatedAt,
	}, nil
}

func (s *pollService) DeletePoll(ctx context.Context, userID, pollID uuid.UUID) error {
	poll, err := s.repo.FindByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("poll not found")
		}
		return err
	}
	if poll.CreatorID != userID {
		return apperror.Forbidden("only the poll creator can delete this poll")
	}

	return s.repo.Delete(ctx, pollID)
}

func toSummaries(polls []pollRepo.PollWithVotes) []pollDto.PollSummary {
	summaries := make([]pollDto.PollSummary, 0, len(polls))
	for _, p := range polls {
		summaries = append(summaries, pollDto.PollSummary{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			PollType:    p.PollType,
			EndDate:     p.EndDate,
			IsPublic:    p.IsPublic,
			IsActive:    p.IsActive,
			CreatorName: p.CreatorName,
			TotalVotes:  p.TotalVotes,
			CreatedAt:   p.CreatedAt,
		})
	}
	return summaries
}
