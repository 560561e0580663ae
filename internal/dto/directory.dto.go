package dto

import (
	"time"

	"github.com/google/uuid"
)

// Locale-resolved views for public pages.

type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

type TagDTO struct {
	ID       uuid.UUID `json:"id"`
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

type EntityTagDTO struct {
	TagDTO
	Verified bool `json:"verified"`
}

type EntityDTO struct {
	ID             uuid.UUID         `json:"id"`
	Slug           string            `json:"slug"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	SeoTitle       string            `json:"seo_title"`
	SeoDescription string            `json:"seo_description"`
	EntityType     string            `json:"entity_type"`
	Status         string            `json:"status"`
	Address        string            `json:"address"`
	City           string            `json:"city"`
	State          string            `json:"state"`
	Zip            string            `json:"zip"`
	Phone          string            `json:"phone"`
	Email          string            `json:"email"`
	Website        string            `json:"website"`
	Latitude       *float64          `json:"latitude"`
	Longitude      *float64          `json:"longitude"`
	Images         map[string]string `json:"images"`
	Category       *CategoryDTO      `json:"category,omitempty"`
	Tags           []EntityTagDTO    `json:"tags"`
	Claimed        bool              `json:"claimed"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
