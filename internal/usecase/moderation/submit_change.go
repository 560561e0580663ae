package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/tahoak/park-collective/internal/audit"
	domain "github.com/tahoak/park-collective/internal/domain/moderation"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type SubmitChangeInput struct {
	EntityID   uuid.UUID
	ChangeType string
	FieldName  string
	NewValue   json.RawMessage

	// Exactly one identifies the submitter; anonymous actors leave an email.
	SubmittedBy    *uuid.UUID
	SubmitterEmail string
}

// ======================================================
// USE CASE
// ======================================================

type SubmitChange struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewSubmitChange(repo domain.Repository, audit audit.Recorder) *SubmitChange {
	return &SubmitChange{repo: repo, audit: audit}
}

func (uc *SubmitChange) Execute(ctx context.Context, in SubmitChangeInput) (*models.PendingChange, error) {
	ct, err := domain.ParseChangeType(in.ChangeType)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.SubmitterEmail))
	if in.SubmittedBy == nil && email == "" {
		return nil, httperr.ErrBusiness("submitter_required")
	}

	payload, err := domain.DecodePayload(ct, in.NewValue)
	if err != nil {
		return nil, err
	}

	entity, err := uc.repo.GetEntity(ctx, in.EntityID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("entity_not_found")
		}
		return nil, fmt.Errorf("load entity: %w", err)
	}

	oldValue, err := uc.snapshot(ctx, entity, payload)
	if err != nil {
		return nil, err
	}

	newValue, err := domain.EncodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	ch := &models.PendingChange{
		EntityID:       entity.ID,
		ChangeType:     string(ct),
		FieldName:      strings.TrimSpace(in.FieldName),
		OldValue:       oldValue,
		NewValue:       newValue,
		SubmittedBy:    in.SubmittedBy,
		SubmitterEmail: email,
		Status:         string(domain.StatusPending),
	}

	if err := uc.repo.CreateChange(ctx, ch); err != nil {
		return nil, fmt.Errorf("create change: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   in.SubmittedBy,
		Action:    "change_submitted",
		Subject:   "pending_change",
		SubjectID: &ch.ID,
		Metadata:  map[string]any{"entity_id": entity.ID, "change_type": ct},
	})

	return ch, nil
}

// tagSnapshot records the assignment state a tag change starts from.
type tagSnapshot struct {
	TagID    uuid.UUID `json:"tagId"`
	Assigned bool      `json:"assigned"`
	Verified bool      `json:"verified"`
}

func (uc *SubmitChange) snapshot(ctx context.Context, e *models.Entity, p domain.Payload) (datatypes.JSON, error) {
	var old any

	switch v := p.(type) {
	case domain.EntityPatch:
		if err := checkCategory(ctx, uc.repo, v); err != nil {
			return nil, err
		}
		old = v.Snapshot(e)

	case domain.TagRef:
		if _, err := uc.repo.GetTag(ctx, v.TagID); err != nil {
			if httperr.IsNotFound(err) {
				return nil, httperr.ErrBusiness("tag_not_found")
			}
			return nil, fmt.Errorf("load tag: %w", err)
		}
		snap := tagSnapshot{TagID: v.TagID}
		et, err := uc.repo.GetEntityTag(ctx, e.ID, v.TagID)
		switch {
		case err == nil:
			snap.Assigned, snap.Verified = true, et.Verified
		case !httperr.IsNotFound(err):
			return nil, fmt.Errorf("load entity tag: %w", err)
		}
		old = snap

	case domain.ImagePayload:
		old = e.ImageSlots()
	}

	b, err := json.Marshal(old)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return datatypes.JSON(b), nil
}

// checkCategory makes sure a patched category still exists.
func checkCategory(ctx context.Context, repo domain.Repository, p domain.EntityPatch) error {
	if p.CategoryID == nil {
		return nil
	}
	if _, err := repo.GetCategory(ctx, *p.CategoryID); err != nil {
		if httperr.IsNotFound(err) {
			return httperr.ErrBusiness("category_not_found")
		}
		return fmt.Errorf("load category: %w", err)
	}
	return nil
}
