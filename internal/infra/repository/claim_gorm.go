package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/tahoak/park-collective/internal/domain/claim"
	"github.com/tahoak/park-collective/internal/domain/moderation"
	"github.com/tahoak/park-collective/internal/models"
)

type ClaimGormRepository struct {
	db *gorm.DB
}

func NewClaimGormRepository(db *gorm.DB) *ClaimGormRepository {
	return &ClaimGormRepository{db: db}
}

var _ domain.Repository = (*ClaimGormRepository)(nil)

func (r *ClaimGormRepository) Transaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ClaimGormRepository{db: tx})
	})
}

func (r *ClaimGormRepository) GetEntity(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	var e models.Entity
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// --------------------------------------------------
// Claims
// --------------------------------------------------

func (r *ClaimGormRepository) CreateClaim(ctx context.Context, c *models.EntityClaim) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *ClaimGormRepository) GetClaim(ctx context.Context, id uuid.UUID) (*models.EntityClaim, error) {
	var c models.EntityClaim
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClaimGormRepository) FindOpenClaim(
	ctx context.Context,
	entityID, userID uuid.UUID,
) (*models.EntityClaim, error) {

	var c models.EntityClaim
	if err := r.db.WithContext(ctx).
		Where("entity_id = ? AND user_id = ? AND status = ?", entityID, userID, string(moderation.StatusPending)).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClaimGormRepository) ListClaims(
	ctx context.Context,
	status moderation.Status,
) ([]models.EntityClaim, error) {

	q := r.db.WithContext(ctx).Order("created_at ASC")
	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var out []models.EntityClaim
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ClaimGormRepository) ClaimForReview(ctx context.Context, c *models.EntityClaim) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.EntityClaim{}).
		Where("id = ? AND status = ?", c.ID, string(moderation.StatusPending)).
		Updates(map[string]any{
			"status":       c.Status,
			"verified_via": c.VerifiedVia,
			"reviewed_by":  c.ReviewedBy,
			"reviewed_at":  c.ReviewedAt,
			"notes":        c.Notes,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Ownership
// --------------------------------------------------

func (r *ClaimGormRepository) SetOwner(ctx context.Context, entityID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Entity{}).
		Where("id = ?", entityID).
		Update("owner_id", userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ClaimGormRepository) GrantRole(ctx context.Context, userID uuid.UUID, role string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserRole{UserID: userID, Role: role}).Error
}
