package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImageMap maps an image slot (logo, cover, gallery1…) to a public URL.
type ImageMap map[string]string

type Entity struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug string    `gorm:"size:150;uniqueIndex;not null" json:"slug"`

	Name                       string         `gorm:"size:150;not null" json:"name"`
	NameTranslations           datatypes.JSON `json:"name_translations"`
	Description                string         `gorm:"type:text" json:"description"`
	DescriptionTranslations    datatypes.JSON `json:"description_translations"`
	SeoTitleTranslations       datatypes.JSON `json:"seo_title_translations"`
	SeoDescriptionTranslations datatypes.JSON `json:"seo_description_translations"`

	EntityType string `gorm:"size:30;not null;index" json:"entity_type"`
	Status     string `gorm:"size:20;default:'PENDING';index" json:"status"`

	Address string `gorm:"size:255" json:"address"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:50" json:"state"`
	Zip     string `gorm:"size:20" json:"zip"`
	Phone   string `gorm:"size:30" json:"phone"`
	Email   string `gorm:"size:150" json:"email"`
	Website string `gorm:"size:255" json:"website"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Images datatypes.JSONType[ImageMap] `json:"images"`

	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category   *Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`

	OwnerID   *uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by"`

	Tags []EntityTag `gorm:"foreignKey:EntityID;constraint:OnDelete:CASCADE;" json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Entity) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}

// ImageSlots returns a copy of the image map, never nil.
func (e *Entity) ImageSlots() ImageMap {
	out := ImageMap{}
	for k, v := range e.Images.Data() {
		out[k] = v
	}
	return out
}
