package moderation

import (
	"time"

	"github.com/google/uuid"

	"github.com/tahoak/park-collective/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Decision is the reviewer metadata written with the outcome.
type Decision struct {
	Action     Action
	ReviewerID uuid.UUID
	Notes      string
	At         time.Time
}

// MarkReviewed moves a PENDING change to the decision's outcome.
func MarkReviewed(ch *models.PendingChange, d Decision) error {
	if err := CanReview(Status(ch.Status)); err != nil {
		return err
	}

	reviewer := d.ReviewerID
	at := d.At
	ch.Status = string(d.Action.Outcome())
	ch.ReviewedBy = &reviewer
	ch.ReviewedAt = &at
	ch.Notes = d.Notes
	return nil
}
