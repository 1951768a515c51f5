package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"noryx/internal/domain/mailing"
	"noryx/internal/infrastructure/persistence/mappers"
	"noryx/internal/infrastructure/persistence/models"
	"noryx/internal/shared/errors"
)

type MailingRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.MailingMapper
}

func NewMailingRepository(db *gorm.DB) mailing.Repository {
	return &MailingRepositoryImpl{
		db:     db,
		mapper: mappers.NewMailingMapper(),
	}
}

func (r *MailingRepositoryImpl) ListDue(ctx context.Context, now time.Time) ([]*mailing.Mailing, error) {
	var modelList []*models.MailingModel

	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", string(mailing.StatusScheduled), now).
		Order("scheduled_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due mailings: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *MailingRepositoryImpl) MarkSending(ctx context.Context, id uint, startedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.MailingModel{}).
		Where("id = ? AND status = ?", id, string(mailing.StatusScheduled)).
		Updates(map[string]interface{}{
			"status":     string(mailing.StatusSending),
			"started_at": startedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark mailing %d as sending: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("mailing not found or not scheduled")
	}

	return nil
}

func (r *MailingRepositoryImpl) Complete(ctx context.Context, id uint, completedAt time.Time, sent, failed int) error {
	result := r.db.WithContext(ctx).
		Model(&models.MailingModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       string(mailing.StatusSent),
			"completed_at": completedAt,
			"sent_count":   sent,
			"failed_count": failed,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to complete mailing %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("mailing not found")
	}

	return nil
}

func (r *MailingRepositoryImpl) Pause(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.MailingModel{}).
		Where("id = ?", id).
		Update("status", string(mailing.StatusPaused))
	if result.Error != nil {
		return fmt.Errorf("failed to pause mailing %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("mailing not found")
	}

	return nil
}

type MailingTemplateRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.MailingMapper
}

func NewMailingTemplateRepository(db *gorm.DB) mailing.TemplateRepository {
	return &MailingTemplateRepositoryImpl{
		db:     db,
		mapper: mappers.NewMailingMapper(),
	}
}

func (r *MailingTemplateRepositoryImpl) GetByID(ctx context.Context, id uint) (*mailing.Template, error) {
	var model models.MailingTemplateModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("mailing template not found")
		}
		return nil, fmt.Errorf("failed to get mailing template: %w", err)
	}

	return r.mapper.TemplateToDomain(&model), nil
}

type MailingHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.MailingMapper
}

func NewMailingHistoryRepository(db *gorm.DB) mailing.HistoryRepository {
	return &MailingHistoryRepositoryImpl{
		db:     db,
		mapper: mappers.NewMailingMapper(),
	}
}

func (r *MailingHistoryRepositoryImpl) Create(ctx context.Context, entry *mailing.HistoryEntry) error {
	model := r.mapper.HistoryToModel(entry)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create mailing history entry: %w", err)
	}

	entry.ID = model.ID
	return nil
}
