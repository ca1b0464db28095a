package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alysesue/bookings-api-sub000/internal/model"
)

type ProviderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Provider, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Provider, error)
	// ListByService — провайдеры, оказывающие услугу.
	ListByService(ctx context.Context, serviceID uuid.UUID) ([]model.Provider, error)
}

type GormProviderRepository struct {
	db *gorm.DB
}

func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

func (r *GormProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Provider, error) {
	var p model.Provider
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProviderRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Provider, error) {
	if len(ids) == 0 {
		return []model.Provider{}, nil
	}
	var providers []model.Provider
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("display_name ASC").
		Find(&providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *GormProviderRepository) ListByService(ctx context.Context, serviceID uuid.UUID) ([]model.Provider, error) {
	var providers []model.Provider
	err := r.db.WithContext(ctx).
		Table("providers").
		Select("providers.*").
		Joins("JOIN provider_services ON provider_services.provider_id = providers.id").
		Where("provider_services.service_id = ?", serviceID).
		Order("providers.display_name ASC").
		Scan(&providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}
