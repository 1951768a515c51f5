package mappers

import (
	"noryx/internal/domain/notification"
	"noryx/internal/infrastructure/persistence/models"
)

type NotificationMapper struct{}

func NewNotificationMapper() NotificationMapper {
	return NotificationMapper{}
}

func (NotificationMapper) ToModel(n *notification.Notification) *models.NotificationModel {
	return &models.NotificationModel{
		ID:      n.ID(),
		UserID:  n.UserID(),
		Type:    string(n.Kind()),
		Title:   n.Title(),
		Message: n.Message(),
		Data:    n.Data(),
		Status:  "sent",
		SentAt:  n.SentAt(),
	}
}

func (NotificationMapper) HistoryToModel(entry *notification.HistoryEntry) *models.NotificationHistoryModel {
	return &models.NotificationHistoryModel{
		ID:             entry.ID,
		UserID:         entry.UserID,
		Type:           string(entry.Kind),
		Message:        entry.Message,
		SentAt:         entry.SentAt,
		DeliveryStatus: entry.DeliveryStatus,
	}
}

func (NotificationMapper) TemplateToDomain(model *models.NotificationTemplateModel) *notification.Template {
	return &notification.Template{
		ID:       model.ID,
		Kind:     notification.Type(model.Type),
		Subject:  model.Subject,
		Message:  model.Message,
		IsActive: model.IsActive,
	}
}
