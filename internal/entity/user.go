package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username                 string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email                    string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash             string     `gorm:"size:255;not null" json:"-"`
	FirstName                string     `gorm:"size:100" json:"first_name"`
	LastName                 string     `gorm:"size:100" json:"last_name"`
	IsVerified               bool       `gorm:"not null;default:false" json:"is_verified"`
	EmailVerifiedAt          *time.Time `json:"email_verified_at,omitempty"`
	VerificationToken        *string    `gorm:"size:128;index" json:"-"`
	VerificationTokenExpires *time.Time `json:"-"`
	IsAdmin                  bool       `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt                time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
