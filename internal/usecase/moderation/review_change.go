package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tahoak/park-collective/internal/audit"
	domain "github.com/tahoak/park-collective/internal/domain/moderation"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/models"
)

type ReviewChangeInput struct {
	ChangeID   uuid.UUID
	Action     string
	Notes      string
	ReviewerID uuid.UUID
}

// ReviewChange approves or rejects a pending change. The outcome is claimed
// with a conditional update first and side effects run in the same
// transaction, so concurrent reviewers cannot both apply a change.
type ReviewChange struct {
	repo  domain.Repository
	audit audit.Recorder
	now   func() time.Time
}

func NewReviewChange(repo domain.Repository, audit audit.Recorder) *ReviewChange {
	return &ReviewChange{
		repo:  repo,
		audit: audit,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (uc *ReviewChange) Execute(ctx context.Context, in ReviewChangeInput) (*models.PendingChange, error) {
	action, err := domain.ParseAction(in.Action)
	if err != nil {
		return nil, err
	}

	var reviewed *models.PendingChange

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ch, err := tx.GetChange(ctx, in.ChangeID)
		if err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("change_not_found")
			}
			return fmt.Errorf("load change: %w", err)
		}

		if err := domain.MarkReviewed(ch, domain.Decision{
			Action:     action,
			ReviewerID: in.ReviewerID,
			Notes:      in.Notes,
			At:         uc.now(),
		}); err != nil {
			return err
		}

		claimed, err := tx.ClaimForReview(ctx, ch)
		if err != nil {
			return fmt.Errorf("claim change: %w", err)
		}
		if !claimed {
			return httperr.ErrBusiness("already_processed")
		}

		if action == domain.Approve {
			if err := apply(ctx, tx, ch); err != nil {
				return err
			}
		}

		reviewed = ch
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:   &in.ReviewerID,
		Action:    "change_" + strings.ToLower(string(action.Outcome())),
		Subject:   "pending_change",
		SubjectID: &reviewed.ID,
		Metadata: map[string]any{
			"entity_id":   reviewed.EntityID,
			"change_type": reviewed.ChangeType,
		},
	})

	return reviewed, nil
}

func apply(ctx context.Context, tx domain.Repository, ch *models.PendingChange) error {
	payload, err := domain.DecodePayload(domain.ChangeType(ch.ChangeType), ch.NewValue)
	if err != nil {
		return err
	}

	entity, err := tx.GetEntity(ctx, ch.EntityID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return httperr.ErrBusiness("entity_not_found")
		}
		return fmt.Errorf("load entity: %w", err)
	}

	switch p := payload.(type) {
	case domain.EntityPatch:
		if err := checkCategory(ctx, tx, p); err != nil {
			return err
		}
		p.Apply(entity)
		return wrap("save entity", tx.SaveEntityFields(ctx, entity))

	case domain.TagRef:
		if p.ChangeType() == domain.RemoveTag {
			return wrap("remove tag", tx.DeleteEntityTag(ctx, entity.ID, p.TagID))
		}
		if _, err := tx.GetTag(ctx, p.TagID); err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("tag_not_found")
			}
			return fmt.Errorf("load tag: %w", err)
		}
		return wrap("assign tag", tx.UpsertVerifiedEntityTag(ctx, entity.ID, p.TagID, ch.SubmittedBy))

	case domain.ImagePayload:
		return wrap("save images", tx.SaveEntityImages(ctx, entity.ID, models.ImageMap(p)))
	}

	return errors.New("unhandled payload type")
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
