package mappers

import (
	"fmt"

	"noryx/internal/domain/mailing"
	"noryx/internal/infrastructure/persistence/models"
)

type MailingMapper struct{}

func NewMailingMapper() MailingMapper {
	return MailingMapper{}
}

func (MailingMapper) ToEntity(model *models.MailingModel) (*mailing.Mailing, error) {
	entity, err := mailing.Reconstruct(mailing.ReconstructParams{
		ID:          model.ID,
		TemplateID:  model.TemplateID,
		Segment:     mailing.Segment(model.Segment),
		Status:      mailing.Status(model.Status),
		ScheduledAt: model.ScheduledAt,
		StartedAt:   model.StartedAt,
		CompletedAt: model.CompletedAt,
		SentCount:   model.SentCount,
		FailedCount: model.FailedCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct mailing %d: %w", model.ID, err)
	}
	return entity, nil
}

func (m MailingMapper) ToEntities(modelList []*models.MailingModel) ([]*mailing.Mailing, error) {
	entities := make([]*mailing.Mailing, 0, len(modelList))
	for _, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func (MailingMapper) TemplateToDomain(model *models.MailingTemplateModel) *mailing.Template {
	return &mailing.Template{
		ID:          model.ID,
		Name:        model.Name,
		Subject:     model.Subject,
		HTMLContent: model.HTMLContent,
	}
}

func (MailingMapper) HistoryToModel(entry *mailing.HistoryEntry) *models.MailingHistoryModel {
	return &models.MailingHistoryModel{
		ID:             entry.ID,
		MailingID:      entry.MailingID,
		UserID:         entry.UserID,
		SentAt:         entry.SentAt,
		DeliveryStatus: entry.DeliveryStatus,
	}
}
