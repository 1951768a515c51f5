package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"noryx/internal/domain/subscription"
	"noryx/internal/infrastructure/persistence/models"
)

type TariffRepositoryImpl struct {
	db *gorm.DB
}

func NewTariffRepository(db *gorm.DB) subscription.TariffRepository {
	return &TariffRepositoryImpl{db: db}
}

func (r *TariffRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Tariff, error) {
	var model models.TariffModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, subscription.ErrTariffNotFound
		}
		return nil, fmt.Errorf("failed to get tariff by ID: %w", err)
	}

	return subscription.ReconstructTariff(model.ID, model.Name)
}
