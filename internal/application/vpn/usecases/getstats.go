package usecases

import (
	"context"
	"time"

	"noryx/internal/application/vpn/dto"
	"noryx/internal/application/vpn/services"
	"noryx/internal/domain/subscription"
	"noryx/internal/shared/errors"
)

type GetStatsUseCase struct {
	subs         subscription.Repository
	provisioning *services.ProvisioningService
}

func NewGetStatsUseCase(subs subscription.Repository, provisioning *services.ProvisioningService) *GetStatsUseCase {
	return &GetStatsUseCase{
		subs:         subs,
		provisioning: provisioning,
	}
}

func (uc *GetStatsUseCase) Execute(ctx context.Context, userID uint) (*dto.StatsResponse, error) {
	sub, err := uc.subs.FindUsableByUserID(ctx, userID, time.Now().UTC())
	if err != nil {
		if err == subscription.ErrNotFound {
			return nil, errors.NewNotFoundError("no active subscription")
		}
		return nil, err
	}

	stats, err := uc.provisioning.InboundStats(ctx, sub)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		UploadBytes:   stats.Up,
		DownloadBytes: stats.Down,
		TotalBytes:    stats.Total,
		Online:        uc.provisioning.ClientOnline(ctx, sub),
		Protocol:      uc.provisioning.InboundProtocol(ctx, sub),
		CountryCode:   sub.CountryCode(),
		Status:        string(sub.Status()),
		ExpiresAt:     sub.ExpiresAt().UTC().Format(time.RFC3339),
	}, nil
}
