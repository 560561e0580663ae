package moderation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/tahoak/park-collective/internal/domain/moderation"
	"github.com/tahoak/park-collective/internal/dto"
	"github.com/tahoak/park-collective/internal/httperr"
)

type ListChangesInput struct {
	Status      string // "" = PENDING, "ALL" = any
	EntityID    string
	SubmittedBy *uuid.UUID
}

// ListChanges is the moderation queue: oldest first, FIFO review order.
type ListChanges struct {
	repo domain.Repository
}

func NewListChanges(repo domain.Repository) *ListChanges {
	return &ListChanges{repo: repo}
}

func (uc *ListChanges) Execute(ctx context.Context, in ListChangesInput) ([]dto.PendingChangeListDTO, error) {
	status, err := domain.ParseStatusFilter(in.Status)
	if err != nil {
		return nil, err
	}

	f := domain.ListFilter{Status: status, SubmittedBy: in.SubmittedBy}
	if in.EntityID != "" {
		id, err := uuid.Parse(in.EntityID)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_entity_id")
		}
		f.EntityID = &id
	}

	changes, err := uc.repo.ListChanges(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}

	out := make([]dto.PendingChangeListDTO, 0, len(changes))
	for _, ch := range changes {
		out = append(out, dto.PendingChangeListDTO{
			ID: ch.ID,
			Entity: dto.EntityRef{
				ID:   ch.Entity.ID,
				Name: ch.Entity.Name,
				Slug: ch.Entity.Slug,
			},
			ChangeType:     ch.ChangeType,
			FieldName:      ch.FieldName,
			OldValue:       rawJSON(ch.OldValue),
			NewValue:       rawJSON(ch.NewValue),
			SubmittedBy:    ch.SubmittedBy,
			SubmitterEmail: ch.SubmitterEmail,
			Status:         ch.Status,
			ReviewedBy:     ch.ReviewedBy,
			ReviewedAt:     ch.ReviewedAt,
			Notes:          ch.Notes,
			CreatedAt:      ch.CreatedAt,
		})
	}
	return out, nil
}

func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}
