package audit

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tahoak/park-collective/internal/models"
)

// Logger writes audit events as AuditLog rows.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Write(ctx context.Context, ev Event) error {
	var meta datatypes.JSON
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			meta = b
		}
	}

	row := models.AuditLog{
		ActorID:   ev.ActorID,
		Action:    ev.Action,
		Subject:   ev.Subject,
		SubjectID: ev.SubjectID,
		Metadata:  meta,
	}

	return l.db.WithContext(ctx).Create(&row).Error
}
