package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Newsletter subscriber, double opt-in.
type Subscriber struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string     `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Locale     string     `gorm:"size:5;default:'en'" json:"locale"`
	Verified   bool       `gorm:"default:false" json:"verified"`
	VerifiedAt *time.Time `json:"verified_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subscriber) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
