package moderation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/tahoak/park-collective/internal/audit"
	"github.com/tahoak/park-collective/internal/domain/directory"
	domain "github.com/tahoak/park-collective/internal/domain/moderation"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/models"
)

type OwnerTagInput struct {
	EntityID uuid.UUID
	TagID    uuid.UUID
	OwnerID  uuid.UUID
}

// OwnerTagResult says whether the tag went live or waits for review.
type OwnerTagResult struct {
	EntityTag *models.EntityTag     `json:"entity_tag,omitempty"`
	Change    *models.PendingChange `json:"pending_change,omitempty"`
}

// AssignOwnerTag lets an owner tag their own listing. Identity and amenity
// tags are trusted immediately. Friendliness tags only queue an ADD_TAG
// change; the join row is written, verified, when an admin approves it.
type AssignOwnerTag struct {
	repo   domain.Repository
	submit *SubmitChange
	audit  audit.Recorder
}

func NewAssignOwnerTag(repo domain.Repository, submit *SubmitChange, audit audit.Recorder) *AssignOwnerTag {
	return &AssignOwnerTag{repo: repo, submit: submit, audit: audit}
}

func (uc *AssignOwnerTag) Execute(ctx context.Context, in OwnerTagInput) (*OwnerTagResult, error) {
	tag, err := uc.repo.GetTag(ctx, in.TagID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("tag_not_found")
		}
		return nil, fmt.Errorf("load tag: %w", err)
	}

	if _, err := uc.repo.GetEntityTag(ctx, in.EntityID, in.TagID); err == nil {
		return nil, httperr.ErrBusiness("tag_already_assigned")
	} else if !httperr.IsNotFound(err) {
		return nil, fmt.Errorf("load entity tag: %w", err)
	}

	owner := in.OwnerID
	if !directory.TagCategory(tag.Category).NeedsVerification() {
		if err := uc.repo.UpsertVerifiedEntityTag(ctx, in.EntityID, in.TagID, &owner); err != nil {
			return nil, fmt.Errorf("assign tag: %w", err)
		}
		uc.audit.Dispatch(audit.Event{
			ActorID:   &owner,
			Action:    "tag_assigned",
			Subject:   "entity",
			SubjectID: &in.EntityID,
			Metadata:  map[string]any{"tag_id": in.TagID},
		})
		return &OwnerTagResult{EntityTag: &models.EntityTag{
			EntityID: in.EntityID, TagID: in.TagID, Verified: true, CreatedBy: &owner,
		}}, nil
	}

	pending, err := uc.hasPendingAddTag(ctx, in.EntityID, in.TagID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, httperr.ErrBusiness("tag_change_pending")
	}

	payload, _ := json.Marshal(domain.TagRef{TagID: in.TagID})
	ch, err := uc.submit.Execute(ctx, SubmitChangeInput{
		EntityID:    in.EntityID,
		ChangeType:  string(domain.AddTag),
		FieldName:   "tags",
		NewValue:    payload,
		SubmittedBy: &owner,
	})
	if err != nil {
		return nil, err
	}
	return &OwnerTagResult{Change: ch}, nil
}

// hasPendingAddTag reports whether an ADD_TAG change for the same tag is
// already waiting in the queue.
func (uc *AssignOwnerTag) hasPendingAddTag(ctx context.Context, entityID, tagID uuid.UUID) (bool, error) {
	changes, err := uc.repo.ListChanges(ctx, domain.ListFilter{
		Status:   domain.StatusPending,
		EntityID: &entityID,
	})
	if err != nil {
		return false, fmt.Errorf("list pending changes: %w", err)
	}
	for _, ch := range changes {
		if ch.ChangeType != string(domain.AddTag) {
			continue
		}
		p, err := domain.DecodePayload(domain.AddTag, ch.NewValue)
		if err != nil {
			continue
		}
		if p.(domain.TagRef).TagID == tagID {
			return true, nil
		}
	}
	return false, nil
}
