package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`

	Name                    string         `gorm:"size:100;not null" json:"name"`
	NameTranslations        datatypes.JSON `json:"name_translations"`
	DescriptionTranslations datatypes.JSON `json:"description_translations"`
	SortOrder               int            `gorm:"default:0" json:"sort_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
