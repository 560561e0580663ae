package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Tag struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string         `gorm:"size:100;not null" json:"name"`
	NameTranslations datatypes.JSON `json:"name_translations"`
	Category         string         `gorm:"size:20;not null;index" json:"category"`
	Slug             string         `gorm:"size:100;uniqueIndex;not null" json:"slug"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// EntityTag is the entity ↔ tag join; the composite key keeps one row per pair.
type EntityTag struct {
	EntityID  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"entity_id"`
	TagID     uuid.UUID  `gorm:"type:uuid;primaryKey;index" json:"tag_id"`
	Tag       Tag        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tag"`
	Verified  bool       `gorm:"default:false" json:"verified"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
