package mappers

import (
	"fmt"

	"noryx/internal/domain/user"
	"noryx/internal/infrastructure/persistence/models"
)

type UserMapper struct{}

func NewUserMapper() UserMapper {
	return UserMapper{}
}

func (UserMapper) ToEntity(model *models.UserModel) (*user.User, error) {
	entity, err := user.Reconstruct(user.ReconstructParams{
		ID:         model.ID,
		Email:      model.Email,
		Username:   model.Username,
		TrialUsed:  model.TrialUsed,
		IsAdmin:    model.IsAdmin,
		LastSeenAt: model.LastSeenAt,
		CreatedAt:  model.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user %d: %w", model.ID, err)
	}
	return entity, nil
}

func (m UserMapper) ToEntities(modelList []*models.UserModel) ([]*user.User, error) {
	entities := make([]*user.User, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
