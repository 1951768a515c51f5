package mappers

import (
	"noryx/internal/domain/vpn"
	"noryx/internal/infrastructure/persistence/models"
)

type ConnectionLogMapper struct{}

func NewConnectionLogMapper() ConnectionLogMapper {
	return ConnectionLogMapper{}
}

func (ConnectionLogMapper) ToModel(entry *vpn.ConnectionLog) *models.ConnectionLogModel {
	return &models.ConnectionLogModel{
		ID:             entry.ID,
		UserID:         entry.UserID,
		Platform:       string(entry.Platform),
		ConnectionType: string(entry.DeliveryFormat),
		CountryCode:    entry.CountryCode,
		CreatedAt:      entry.CreatedAt,
	}
}

func (ConnectionLogMapper) CountryToDomain(model *models.CountryModel) *vpn.Country {
	return &vpn.Country{
		Code:        model.CountryCode,
		Name:        model.CountryName,
		FlagEmoji:   model.FlagEmoji,
		IsAvailable: model.IsAvailable,
		Priority:    model.Priority,
	}
}

func (m ConnectionLogMapper) CountriesToDomain(modelList []*models.CountryModel) []*vpn.Country {
	countries := make([]*vpn.Country, 0, len(modelList))
	for _, model := range modelList {
		countries = append(countries, m.CountryToDomain(model))
	}
	return countries
}
