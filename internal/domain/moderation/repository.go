package moderation

import (
	"context"

	"github.com/google/uuid"

	"github.com/tahoak/park-collective/internal/models"
)

// ListFilter narrows the moderation queue. Empty Status means any status.
type ListFilter struct {
	Status      Status
	EntityID    *uuid.UUID
	SubmittedBy *uuid.UUID
}

type Repository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction; an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(Repository) error) error

	// -------- Changes --------
	CreateChange(ctx context.Context, ch *models.PendingChange) error

	GetChange(ctx context.Context, id uuid.UUID) (*models.PendingChange, error)

	// ListChanges returns matches oldest first, with Entity id/name/slug loaded.
	ListChanges(ctx context.Context, f ListFilter) ([]models.PendingChange, error)

	// ClaimForReview conditionally writes the review outcome
	// (WHERE id = ? AND status = 'PENDING') and reports whether a row changed.
	ClaimForReview(ctx context.Context, ch *models.PendingChange) (bool, error)

	// -------- Entity --------
	GetEntity(ctx context.Context, id uuid.UUID) (*models.Entity, error)

	SaveEntityFields(ctx context.Context, e *models.Entity) error

	SaveEntityImages(ctx context.Context, entityID uuid.UUID, images models.ImageMap) error

	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)

	// -------- Tags --------
	GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error)

	GetEntityTag(ctx context.Context, entityID, tagID uuid.UUID) (*models.EntityTag, error)

	// UpsertVerifiedEntityTag inserts the join row verified, or flips an
	// existing row to verified.
	UpsertVerifiedEntityTag(ctx context.Context, entityID, tagID uuid.UUID, createdBy *uuid.UUID) error

	// DeleteEntityTag removes the join row; a missing row is not an error.
	DeleteEntityTag(ctx context.Context, entityID, tagID uuid.UUID) error
}
