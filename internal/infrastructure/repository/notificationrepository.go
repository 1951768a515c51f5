package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"noryx/internal/domain/notification"
	"noryx/internal/infrastructure/persistence/mappers"
	"noryx/internal/infrastructure/persistence/models"
)

type NotificationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.NotificationMapper
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepositoryImpl{
		db:     db,
		mapper: mappers.NewNotificationMapper(),
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notif *notification.Notification) error {
	model := r.mapper.ToModel(notif)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if err := notif.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set notification ID: %w", err)
	}

	return nil
}

type NotificationHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.NotificationMapper
}

func NewNotificationHistoryRepository(db *gorm.DB) notification.HistoryRepository {
	return &NotificationHistoryRepositoryImpl{
		db:     db,
		mapper: mappers.NewNotificationMapper(),
	}
}

func (r *NotificationHistoryRepositoryImpl) Create(ctx context.Context, entry *notification.HistoryEntry) error {
	model := r.mapper.HistoryToModel(entry)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create notification history entry: %w", err)
	}

	entry.ID = model.ID
	return nil
}

func (r *NotificationHistoryRepositoryImpl) CountRecent(ctx context.Context, userID uint, kind notification.Type, since time.Time) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.NotificationHistoryModel{}).
		Where("user_id = ? AND type = ? AND sent_at >= ?", userID, string(kind), since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count recent notifications: %w", err)
	}

	return count, nil
}

type NotificationTemplateRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.NotificationMapper
}

func NewNotificationTemplateRepository(db *gorm.DB) notification.TemplateRepository {
	return &NotificationTemplateRepositoryImpl{
		db:     db,
		mapper: mappers.NewNotificationMapper(),
	}
}

func (r *NotificationTemplateRepositoryImpl) GetActiveByKind(ctx context.Context, kind notification.Type) (*notification.Template, error) {
	var model models.NotificationTemplateModel

	err := r.db.WithContext(ctx).
		Where("type = ? AND is_active = ?", string(kind), true).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification template: %w", err)
	}

	return r.mapper.TemplateToDomain(&model), nil
}
