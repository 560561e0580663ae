package claim

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tahoak/park-collective/internal/domain/moderation"
	"github.com/tahoak/park-collective/internal/models"
)

// ===============================
// Verification channel
// ===============================

type Via string

const (
	ViaEmail Via = "EMAIL"
	ViaAdmin Via = "ADMIN"
)

// ===============================
// Domain Actions
// ===============================

type Decision struct {
	Action     moderation.Action
	Via        Via
	ReviewerID *uuid.UUID
	Notes      string
	At         time.Time
}

// MarkReviewed follows the same one-shot transition as pending changes.
func MarkReviewed(c *models.EntityClaim, d Decision) error {
	if err := moderation.CanReview(moderation.Status(c.Status)); err != nil {
		return err
	}

	at := d.At
	c.Status = string(d.Action.Outcome())
	c.VerifiedVia = string(d.Via)
	c.ReviewedBy = d.ReviewerID
	c.ReviewedAt = &at
	c.Notes = d.Notes
	return nil
}

// ===============================
// Repository
// ===============================

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetEntity(ctx context.Context, id uuid.UUID) (*models.Entity, error)

	CreateClaim(ctx context.Context, c *models.EntityClaim) error
	GetClaim(ctx context.Context, id uuid.UUID) (*models.EntityClaim, error)
	// FindOpenClaim returns the user's PENDING claim on the entity.
	FindOpenClaim(ctx context.Context, entityID, userID uuid.UUID) (*models.EntityClaim, error)
	ListClaims(ctx context.Context, status moderation.Status) ([]models.EntityClaim, error)

	// ClaimForReview writes the outcome only while the claim is PENDING.
	ClaimForReview(ctx context.Context, c *models.EntityClaim) (bool, error)

	SetOwner(ctx context.Context, entityID, userID uuid.UUID) error
	// GrantRole adds the role; holding it already is not an error.
	GrantRole(ctx context.Context, userID uuid.UUID, role string) error
}
