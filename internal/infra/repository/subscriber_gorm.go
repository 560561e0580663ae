package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tahoak/park-collective/internal/models"
	"github.com/tahoak/park-collective/internal/usecase/subscription"
)

type SubscriberGormRepository struct {
	db *gorm.DB
}

func NewSubscriberGormRepository(db *gorm.DB) *SubscriberGormRepository {
	return &SubscriberGormRepository{db: db}
}

var _ subscription.Repository = (*SubscriberGormRepository)(nil)

func (r *SubscriberGormRepository) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var s models.Subscriber
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriberGormRepository) Create(ctx context.Context, s *models.Subscriber) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SubscriberGormRepository) UpdateLocale(ctx context.Context, id uuid.UUID, locale string) error {
	return r.db.WithContext(ctx).
		Model(&models.Subscriber{}).
		Where("id = ?", id).
		Update("locale", locale).Error
}

func (r *SubscriberGormRepository) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Subscriber{}).
		Where("id = ?", id).
		Updates(map[string]any{"verified": true, "verified_at": at})
	return res.RowsAffected == 1, res.Error
}
