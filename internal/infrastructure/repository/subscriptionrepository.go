package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"noryx/internal/domain/subscription"
	"noryx/internal/infrastructure/persistence/mappers"
	"noryx/internal/infrastructure/persistence/models"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) subscription.Repository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := r.mapper.ToModel(sub)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := sub.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, subscription.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription by ID: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) FindUsableByUserID(ctx context.Context, userID uint, now time.Time) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ? AND expires_at > ?",
			userID, []string{string(subscription.StatusActive), string(subscription.StatusTrial)}, now).
		Order("expires_at DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, subscription.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find usable subscription for user %d: %w", userID, err)
	}

	return r.mapper.ToEntity(&model)
}

// UpdateProviderIdentity writes or clears the three provider columns in a
// single UPDATE so the triplet never ends up partially stored.
func (r *SubscriptionRepositoryImpl) UpdateProviderIdentity(ctx context.Context, id uint, identity *subscription.ProviderIdentity) error {
	values := map[string]interface{}{
		"provider_client_id":    nil,
		"provider_client_email": nil,
		"provider_inbound_id":   nil,
		"updated_at":            time.Now().UTC(),
	}
	if identity != nil {
		values["provider_client_id"] = identity.ClientID
		values["provider_client_email"] = identity.ClientEmail
		values["provider_inbound_id"] = identity.InboundID
	}

	result := r.db.WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update provider identity for subscription %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrNotFound
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status subscription.Status) error {
	result := r.db.WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update status for subscription %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrNotFound
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) UpdateCountry(ctx context.Context, id uint, countryCode string) error {
	result := r.db.WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"country_code": countryCode,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update country for subscription %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrNotFound
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) ListExpiring(ctx context.Context) ([]*subscription.Subscription, error) {
	var modelList []*models.SubscriptionModel

	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{string(subscription.StatusActive), string(subscription.StatusTrial)}).
		Order("expires_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring subscriptions: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *SubscriptionRepositoryImpl) ListTerminalProvisioned(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	var modelList []*models.SubscriptionModel

	err := r.db.WithContext(ctx).
		Where("provider_client_id IS NOT NULL").
		Where("status IN ? OR expires_at <= ?",
			[]string{string(subscription.StatusCancelled), string(subscription.StatusExpired)}, now).
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list terminal provisioned subscriptions: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}
