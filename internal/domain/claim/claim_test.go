package claim

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tahoak/park-collective/internal/domain/moderation"
	"github.com/tahoak/park-collective/internal/httperr"
	"github.com/tahoak/park-collective/internal/models"
)

func TestMarkReviewed(t *testing.T) {
	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	c := &models.EntityClaim{Status: "PENDING"}

	if err := MarkReviewed(c, Decision{Action: moderation.Approve, Via: ViaEmail, At: at}); err != nil {
		t.Fatal(err)
	}
	if c.Status != "APPROVED" || c.VerifiedVia != "EMAIL" || c.ReviewedBy != nil || !c.ReviewedAt.Equal(at) {
		t.Fatalf("unexpected claim: %+v", c)
	}

	admin := uuid.New()
	err := MarkReviewed(c, Decision{Action: moderation.Reject, Via: ViaAdmin, ReviewerID: &admin, At: at.Add(time.Hour)})
	if !httperr.IsBusiness(err, "already_processed") {
		t.Fatalf("expected already_processed, got %v", err)
	}
	if c.Status != "APPROVED" || c.ReviewedBy != nil {
		t.Fatalf("second review mutated the claim: %+v", c)
	}
}
