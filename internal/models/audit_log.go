package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ActorID *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"`
	Action  string     `gorm:"size:50;not null;index" json:"action"`

	Subject   string         `gorm:"size:50;index" json:"subject"`
	SubjectID *uuid.UUID     `gorm:"type:uuid" json:"subject_id"`
	Metadata  datatypes.JSON `json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}
