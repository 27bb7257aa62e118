package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"nga.at/communityforum/internal/entity"
)

const (
	ActionAdded   = "added"
	ActionChanged = "changed"
	ActionRemoved = "removed"
)

type ReactionRepository interface {
	// Toggle reports which of the three transitions happened.
	Toggle(ctx context.Context, reaction *entity.Reaction) (string, error)
	CountsForTarget(ctx context.Context, targetType string, targetID uuid.UUID) (map[string]int64, error)
	CountByTargetIDs(ctx context.Context, targetType string, targetIDs []uuid.UUID, reactionType string) (map[uuid.UUID]int64, error)
	UserReaction(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (*string, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Toggle runs inside one transaction; the unique (user, target) index backs
// it up, so a concurrent duplicate insert fails instead of creating a
// second row.
func (r *reactionRepository) Toggle(ctx context.Context, reaction *entity.Reaction) (string, error) {
	var action string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Find with a slice to avoid "record not found" log noise.
		var existing []entity.Reaction
		if err := tx.
			Where("user_id = ? AND target_type = ? AND target_id = ?",
				reaction.UserID, reaction.TargetType, reaction.TargetID).
			Limit(1).
			Find(&existing).Error; err != nil {
			return err
		}

		if len(existing) > 0 {
			record := existing[0]

			if record.ReactionType == reaction.ReactionType {
				// Same type again: toggle off.
				action = ActionRemoved
				return tx.Delete(&record).Error
			}

			// Different type: change in place, never a second row.
			action = ActionChanged
			record.ReactionType = reaction.ReactionType
			return tx.Save(&record).Error
		}

		action = ActionAdded
		return tx.Create(reaction).Error
	})
	if err != nil {
		return "", err
	}

	return action, nil
}

func (r *reactionRepository) CountsForTarget(ctx context.Context, targetType string, targetID uuid.UUID) (map[string]int64, error) {
	type result struct {
		ReactionType string
		Count        int64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Model(&entity.Reaction{}).
		Select("reaction_type, count(*) as count").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Group("reaction_type").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, res := range results {
		counts[res.ReactionType] = res.Count
	}
	return counts, nil
}

func (r *reactionRepository) CountByTargetIDs(ctx context.Context, targetType string, targetIDs []uuid.UUID, reactionType string) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64)
	if len(targetIDs) == 0 {
		return counts, nil
	}

	type result struct {
		TargetID uuid.UUID
		Count    int64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Model(&entity.Reaction{}).
		Select("target_id, count(*) as count").
		Where("target_type = ? AND target_id IN ? AND reaction_type = ?", targetType, targetIDs, reactionType).
		Group("target_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for _, res := range results {
		counts[res.TargetID] = res.Count
	}
	return counts, nil
}

func (r *reactionRepository) UserReaction(ctx context.Context, userID uuid.UUID, targetType string, targetID uuid.UUID) (*string, error) {
	var types []string
	err := r.db.WithContext(ctx).
		Model(&entity.Reaction{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Pluck("reaction_type", &types).Error
	if err != nil {
		return nil, err
	}

	if len(types) == 0 {
		return nil, nil
	}
	return &types[0], nil
}
