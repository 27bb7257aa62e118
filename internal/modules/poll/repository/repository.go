package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"nga.at/communityforum/internal/entity"
)

// PollWithVotes carries a poll together with its creator name and total
// vote count from the aggregate listing query.
type PollWithVotes struct {
	entity.Poll
	CreatorName string
	TotalVotes  int64
}

// OptionWithCount carries an option and its aggregate vote count.
type OptionWithCount struct {
	entity.PollOption
	VoteCount int64
}

type PollRepository interface {
	// CreateWithOptions inserts the poll and all its options in one
	// transaction; any failure rolls back everything.
	CreateWithOptions(ctx context.Context, poll *entity.Poll, options []*entity.PollOption) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Poll, error)
	FindPublicActive(ctx context.Context) ([]PollWithVotes, error)
	FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]PollWithVotes, error)
	FindOptionsWithCounts(ctx context.Context, pollID uuid.UUID) ([]OptionWithCount, error)
	FindOption(ctx context.Context, optionID, pollID uuid.UUID) (*entity.PollOption, error)
	FindUserVote(ctx context.Context, userID, pollID uuid.UUID) (*entity.UserVote, error)
	CreateVote(ctx context.Context, vote *entity.UserVote) error
	Update(ctx context.Context, poll *entity.Poll) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) CreateWithOptions(ctx context.Context, poll *entity.Poll, options []*entity.PollOption) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(poll).Error; err != nil {
			return err
		}

		for _, option := range options {
			option.PollID = poll.ID
			if err := tx.Create(option).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *pollRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Poll, error) {
	var poll entity.Poll
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("id = ?", id).
		First(&poll).Error; err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *pollRepository) FindPublicActive(ctx context.Context) ([]PollWithVotes, error) {
	var polls []PollWithVotes
	err := r.db.WithContext(ctx).
		Model(&entity.Poll{}).
		Select("polls.*, users.username as creator_name, count(user_votes.id) as total_votes").
		Joins("LEFT JOIN users ON users.id = polls.creator_id").
		Joins("LEFT JOIN user_votes ON user_votes.poll_id = polls.id").
		Where("polls.is_public = ? AND polls.is_active = ?", true, true).
		Group("polls.id, users.username").
		Order("polls.created_at DESC").
		Scan(&polls).Error
	return polls, err
}

func (r *pollRepository) FindByCreator(ctx context.Context, creatorID uuid.UUID) ([]PollWithVotes, error) {
	var polls []PollWithVotes
	err := r.db.WithContext(ctx).
		Model(&entity.Poll{}).
		Select("polls.*, users.username as creator_name, count(user_votes.id) as total_votes").
		Joins("LEFT JOIN users ON users.id = polls.creator_id").
		Joins("LEFT JOIN user_votes ON user_votes.poll_id = polls.id").
		Where("polls.creator_id = ?", creatorID).
		Group("polls.id, users.username").
		Order("polls.created_at DESC").
		Scan(&polls).Error
	return polls, err
}

func (r *pollRepository) FindOptionsWithCounts(ctx context.Context, pollID uuid.UUID) ([]OptionWithCount, error) {
	var options []OptionWithCount
	err := r.db.WithContext(ctx).
		Model(&entity.PollOption{}).
		Select("poll_options.*, count(user_votes.id) as vote_count").
		Joins("LEFT JOIN user_votes ON user_votes.option_id = poll_options.id").
		Where("poll_options.poll_id = ?", pollID).
		Group("poll_options.id").
		Order("poll_options.option_order ASC").
		Scan(&options).Error
	return options, err
}

func (r *pollRepository) FindOption(ctx context.Context, optionID, pollID uuid.UUID) (*entity.PollOption, error) {
	var option entity.PollOption
	if err := r.db.WithContext(ctx).
		Where("id = ? AND poll_id = ?", optionID, pollID).
		First(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *pollRepository) FindUserVote(ctx context.Context, userID, pollID uuid.UUID) (*entity.UserVote, error) {
	var vote entity.UserVote
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND poll_id = ?", userID, pollID).
		First(&vote).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *pollRepository) CreateVote(ctx context.Context, vote *entity.UserVote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *pollRepository) Update(ctx context.Context, poll *entity.Poll) error {
	return r.db.WithContext(ctx).Save(poll).Error
}

func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Options and votes cascade on the foreign keys.
	return r.db.WithContext(ctx).Delete(&entity.Poll{}, "id = ?", id).Error
}
