package mappers

import (
	"fmt"

	"noryx/internal/domain/subscription"
	"noryx/internal/infrastructure/persistence/models"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return SubscriptionMapper{}
}

func (SubscriptionMapper) ToModel(sub *subscription.Subscription) *models.SubscriptionModel {
	model := &models.SubscriptionModel{
		ID:          sub.ID(),
		UserID:      sub.UserID(),
		TariffID:    sub.TariffID(),
		Status:      string(sub.Status()),
		StartsAt:    sub.StartsAt(),
		ExpiresAt:   sub.ExpiresAt(),
		CountryCode: sub.CountryCode(),
		CreatedAt:   sub.CreatedAt(),
		UpdatedAt:   sub.UpdatedAt(),
	}

	if identity := sub.Provider(); identity != nil {
		model.ProviderClientID = &identity.ClientID
		model.ProviderClientEmail = &identity.ClientEmail
		model.ProviderInboundID = &identity.InboundID
	}

	return model
}

func (SubscriptionMapper) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	var identity *subscription.ProviderIdentity
	if model.ProviderClientID != nil && model.ProviderClientEmail != nil && model.ProviderInboundID != nil {
		identity = &subscription.ProviderIdentity{
			ClientID:    *model.ProviderClientID,
			ClientEmail: *model.ProviderClientEmail,
			InboundID:   *model.ProviderInboundID,
		}
	}

	entity, err := subscription.Reconstruct(subscription.ReconstructParams{
		ID:          model.ID,
		UserID:      model.UserID,
		TariffID:    model.TariffID,
		Status:      subscription.Status(model.Status),
		StartsAt:    model.StartsAt,
		ExpiresAt:   model.ExpiresAt,
		CountryCode: model.CountryCode,
		Provider:    identity,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription %d: %w", model.ID, err)
	}
	return entity, nil
}

func (m SubscriptionMapper) ToEntities(modelList []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	entities := make([]*subscription.Subscription, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
