package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntityClaim is a user's request to become the owner of a listing.
type EntityClaim struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	EntityID uuid.UUID `gorm:"type:uuid;not null;index" json:"entity_id"`
	Entity   Entity    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Message     string `gorm:"type:text" json:"message,omitempty"`
	Status      string `gorm:"size:20;default:'PENDING';index" json:"status"`
	VerifiedVia string `gorm:"size:10" json:"verified_via,omitempty"` // EMAIL | ADMIN

	ReviewedBy *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *EntityClaim) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
