package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PendingChange struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	EntityID uuid.UUID `gorm:"type:uuid;not null;index" json:"entity_id"`
	Entity   Entity    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ChangeType string         `gorm:"size:20;not null" json:"change_type"`
	FieldName  string         `gorm:"size:100" json:"field_name,omitempty"`
	OldValue   datatypes.JSON `json:"old_value"`
	NewValue   datatypes.JSON `gorm:"not null" json:"new_value"`

	SubmittedBy    *uuid.UUID `gorm:"type:uuid;index" json:"submitted_by"`
	SubmitterEmail string     `gorm:"size:150" json:"submitter_email,omitempty"`

	Status     string     `gorm:"size:20;default:'PENDING';index" json:"status"`
	ReviewedBy *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *PendingChange) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
