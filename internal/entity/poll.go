package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Poll struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator     User       `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	PollType    string     `gorm:"size:30;not null;default:multiple_choice" json:"poll_type"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsPublic    bool       `gorm:"not null;default:true" json:"is_public"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Poll) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

type PollOption struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PollID      uuid.UUID `gorm:"type:uuid;not null;index" json:"poll_id"`
	Poll        Poll      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	OptionText  string    `gorm:"size:255;not null" json:"option_text"`
	OptionOrder int       `gorm:"not null" json:"option_order"`
}

func (o *PollOption) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID, err = uuid.NewV7()
	}
	return
}

// UserVote records a single vote. The unique (user_id, poll_id) index makes
// a concurrent double-submit from the same user lose on the constraint
// rather than inserting a duplicate vote.
type UserVote struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_poll,priority:1" json:"user_id"`
	User      User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PollID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_poll,priority:2" json:"poll_id"`
	Poll      Poll       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	OptionID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"option_id"`
	Option    PollOption `gorm:"foreignKey:OptionID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (v *UserVote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID, err = uuid.NewV7()
	}
	return
}
