package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"noryx/internal/domain/vpn"
	"noryx/internal/infrastructure/persistence/mappers"
	"noryx/internal/infrastructure/persistence/models"
)

type ConnectionLogRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ConnectionLogMapper
}

func NewConnectionLogRepository(db *gorm.DB) vpn.ConnectionLogRepository {
	return &ConnectionLogRepositoryImpl{
		db:     db,
		mapper: mappers.NewConnectionLogMapper(),
	}
}

func (r *ConnectionLogRepositoryImpl) Create(ctx context.Context, entry *vpn.ConnectionLog) error {
	model := r.mapper.ToModel(entry)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create connection log entry: %w", err)
	}

	entry.ID = model.ID
	return nil
}

type CountryRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ConnectionLogMapper
}

func NewCountryRepository(db *gorm.DB) vpn.CountryRepository {
	return &CountryRepositoryImpl{
		db:     db,
		mapper: mappers.NewConnectionLogMapper(),
	}
}

func (r *CountryRepositoryImpl) ListAvailable(ctx context.Context) ([]*vpn.Country, error) {
	var modelList []*models.CountryModel

	err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("priority DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list available countries: %w", err)
	}

	return r.mapper.CountriesToDomain(modelList), nil
}
