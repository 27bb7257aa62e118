package reaction

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nga.at/communityforum/internal/entity"
	postRepo "nga.at/communityforum/internal/modules/post/repository"
	reactionDto "nga.at/communityforum/internal/modules/reaction/dto"
	reactionRepo "nga.at/communityforum/internal/modules/reaction/repository"
	"nga.at/communityforum/pkg/apperror"
	"nga.at/communityforum/pkg/dto"
)

type ReactionService interface {
	Toggle(ctx context.Context, userID uuid.UUID, req reactionDto.ToggleReactionRequest) (*reactionDto.ToggleReactionResponse, error)
	GetReactions(ctx context.Context, userID *uuid.UUID, targetType string, targetID uuid.UUID) (*dto.ReactionsResponse, error)
}

type reactionService struct {
	repo     reactionRepo.ReactionRepository
	postRepo postRepo.PostRepository
}

func NewReactionService(repo reactionRepo.ReactionRepository, postRepo postRepo.PostRepository) ReactionService {
	return &reactionService{
		repo:     repo,
		postRepo: postRepo,
	}
}

func (s *reactionService) Toggle(ctx context.Context, userID uuid.UUID, req reactionDto.ToggleReactionRequest) (*reactionDto.ToggleReactionResponse, error) {
	if err := s.targetExists(ctx, req.TargetType, req.TargetID); err != nil {
		return nil, err
	}

	reaction := &entity.Reaction{
		UserID:       userID,
		TargetType:   req.TargetType,
		TargetID:     req.TargetID,
		ReactionType: req.ReactionType,
	}

	action, err := s.repo.Toggle(ctx, reaction)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent request won the insert; nothing to change.
			return nil, apperror.Conflict("reaction already recorded")
		}
		return nil, err
	}

	return &reactionDto.ToggleReactionResponse{
		Action:       action,
		TargetType:   req.TargetType,
		TargetID:     req.TargetID,
		ReactionType: req.ReactionType,
	}, nil
}

func (s *reactionService) GetReactions(ctx context.Context, userID *uuid.UUID, targetType string, targetID uuid.UUID) (*dto.ReactionsResponse, error) {
	if targetType != entity.TargetPost && targetType != entity.TargetComment {
		return nil, apperror.BadRequest("target type must be post or comment")
	}

	counts, err := s.repo.CountsForTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	var userReacted *string
	if userID != nil {
		userReacted, err = s.repo.UserReaction(ctx, *userID, targetType, targetID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.ReactionsResponse{
		Counts:      counts,
		UserReacted: userReacted,
	}, nil
}

func (s *reactionService) targetExists(ctx context.Context, targetType string, targetID uuid.UUID) error {
	var err error
	switch targetType {
	case entity.TargetPost:
		_, err = s.postRepo.FindByID(ctx, targetID)
	case entity.TargetComment:
		_, err = s.postRepo.FindCommentByID(ctx, targetID)
	default:
		return apperror.BadRequest("target type must be post or comment")
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("reaction target not found")
		}
		return err
	}
	return nil
}
