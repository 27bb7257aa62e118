package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// Reaction holds one typed reaction per user per target. The composite
// unique index closes the check-then-insert race: a concurrent duplicate
// insert fails on the constraint instead of producing a second row.
type Reaction struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_user_target,priority:1" json:"user_id"`
	User         User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TargetType   string    `gorm:"size:20;not null;uniqueIndex:idx_reactions_user_target,priority:2;index:idx_reactions_lookup,priority:1" json:"target_type"`
	TargetID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_user_target,priority:3;index:idx_reactions_lookup,priority:2" json:"target_id"`
	ReactionType string    `gorm:"size:20;not null" json:"reaction_type"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Reaction) TableName() string {
	return "reactions"
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
