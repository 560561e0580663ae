package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/tahoak/park-collective/internal/domain/moderation"
	"github.com/tahoak/park-collective/internal/models"
)

type ModerationGormRepository struct {
	db *gorm.DB
}

func NewModerationGormRepository(db *gorm.DB) *ModerationGormRepository {
	return &ModerationGormRepository{db: db}
}

var _ domain.Repository = (*ModerationGormRepository)(nil)

func (r *ModerationGormRepository) Transaction(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ModerationGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Changes
// --------------------------------------------------

func (r *ModerationGormRepository) CreateChange(
	ctx context.Context,
	ch *models.PendingChange,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ch).Error
}

func (r *ModerationGormRepository) GetChange(
	ctx context.Context,
	id uuid.UUID,
) (*models.PendingChange, error) {

	var ch models.PendingChange
	if err := r.db.WithContext(ctx).First(&ch, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *ModerationGormRepository) ListChanges(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.PendingChange, error) {

	q := r.db.WithContext(ctx).
		Preload("Entity", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "slug")
		}).
		Order("created_at ASC")

	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.EntityID != nil {
		q = q.Where("entity_id = ?", *f.EntityID)
	}
	if f.SubmittedBy != nil {
		q = q.Where("submitted_by = ?", *f.SubmittedBy)
	}

	var out []models.PendingChange
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ClaimForReview only succeeds while the row is still PENDING; a concurrent
// reviewer that committed first leaves zero affected rows.
func (r *ModerationGormRepository) ClaimForReview(
	ctx context.Context,
	ch *models.PendingChange,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.PendingChange{}).
		Where("id = ? AND status = ?", ch.ID, string(domain.StatusPending)).
		Updates(map[string]any{
			"status":      ch.Status,
			"reviewed_by": ch.ReviewedBy,
			"reviewed_at": ch.ReviewedAt,
			"notes":       ch.Notes,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Entity
// --------------------------------------------------

func (r *ModerationGormRepository) GetEntity(
	ctx context.Context,
	id uuid.UUID,
) (*models.Entity, error) {

	var e models.Entity
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// SaveEntityFields writes the patchable columns; zero values are written too.
func (r *ModerationGormRepository) SaveEntityFields(
	ctx context.Context,
	e *models.Entity,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Entity{ID: e.ID}).
		Select(
			"name", "name_translations",
			"description", "description_translations",
			"seo_title_translations", "seo_description_translations",
			"entity_type", "category_id", "address", "city", "state", "zip",
			"phone", "email", "website", "latitude", "longitude",
			"updated_at",
		).
		Updates(e).Error
}

func (r *ModerationGormRepository) SaveEntityImages(
	ctx context.Context,
	entityID uuid.UUID,
	images models.ImageMap,
) error {
	if images == nil {
		images = models.ImageMap{}
	}
	return r.db.WithContext(ctx).
		Model(&models.Entity{}).
		Where("id = ?", entityID).
		Update("images", datatypes.NewJSONType(images)).Error
}

func (r *ModerationGormRepository) GetCategory(
	ctx context.Context,
	id uuid.UUID,
) (*models.Category, error) {

	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// --------------------------------------------------
// Tags
// --------------------------------------------------

func (r *ModerationGormRepository) GetTag(
	ctx context.Context,
	id uuid.UUID,
) (*models.Tag, error) {

	var t models.Tag
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ModerationGormRepository) GetEntityTag(
	ctx context.Context,
	entityID, tagID uuid.UUID,
) (*models.EntityTag, error) {

	var et models.EntityTag
	if err := r.db.WithContext(ctx).
		Where("entity_id = ? AND tag_id = ?", entityID, tagID).
		First(&et).Error; err != nil {
		return nil, err
	}
	return &et, nil
}

func (r *ModerationGormRepository) UpsertVerifiedEntityTag(
	ctx context.Context,
	entityID, tagID uuid.UUID,
	createdBy *uuid.UUID,
) error {

	et := models.EntityTag{
		EntityID:  entityID,
		TagID:     tagID,
		Verified:  true,
		CreatedBy: createdBy,
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity_id"}, {Name: "tag_id"}},
			DoUpdates: clause.Assignments(map[string]any{"verified": true, "updated_at": gorm.Expr("NOW()")}),
		}).
		Create(&et).Error
}

func (r *ModerationGormRepository) DeleteEntityTag(
	ctx context.Context,
	entityID, tagID uuid.UUID,
) error {
	return r.db.WithContext(ctx).
		Where("entity_id = ? AND tag_id = ?", entityID, tagID).
		Delete(&models.EntityTag{}).Error
}
