package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EntityRef is the minimal entity identity shown next to a queued change.
type EntityRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type PendingChangeListDTO struct {
	ID             uuid.UUID       `json:"id"`
	Entity         EntityRef       `json:"entity"`
	ChangeType     string          `json:"change_type"`
	FieldName      string          `json:"field_name,omitempty"`
	OldValue       json.RawMessage `json:"old_value"`
	NewValue       json.RawMessage `json:"new_value"`
	SubmittedBy    *uuid.UUID      `json:"submitted_by"`
	SubmitterEmail string          `json:"submitter_email,omitempty"`
	Status         string          `json:"status"`
	ReviewedBy     *uuid.UUID      `json:"reviewed_by"`
	ReviewedAt     *time.Time      `json:"reviewed_at"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
