package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"noryx/internal/domain/mailing"
	"noryx/internal/domain/subscription"
	"noryx/internal/domain/user"
	"noryx/internal/infrastructure/persistence/mappers"
	"noryx/internal/infrastructure/persistence/models"
	"noryx/internal/shared/errors"
)

// inactivityWindow is how long a user must be unseen to land in the
// inactive mailing segment.
const inactivityWindow = 30 * 24 * time.Hour

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UserMapper
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mappers.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *UserRepositoryImpl) ListBySegment(ctx context.Context, segment mailing.Segment) ([]*user.User, error) {
	if !segment.IsValid() {
		return nil, fmt.Errorf("unknown mailing segment: %s", segment)
	}

	var modelList []*models.UserModel

	query := r.db.WithContext(ctx).Model(&models.UserModel{})
	usable := r.db.Model(&models.SubscriptionModel{}).
		Select("user_id").
		Where("status IN ? AND expires_at > ?",
			[]string{string(subscription.StatusActive), string(subscription.StatusTrial)}, time.Now().UTC())

	switch segment {
	case mailing.SegmentWithSubscription:
		query = query.Where("id IN (?)", usable)
	case mailing.SegmentWithoutSubscription:
		query = query.Where("id NOT IN (?)", usable)
	case mailing.SegmentTrial:
		query = query.Where("trial_used = ?", true)
	case mailing.SegmentInactive:
		query = query.Where("last_seen_at < ?", time.Now().UTC().Add(-inactivityWindow))
	case mailing.SegmentAll:
	}

	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list users for segment %s: %w", segment, err)
	}

	return r.mapper.ToEntities(modelList)
}
