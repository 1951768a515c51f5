package usecases

import (
	"context"
	"time"

	"noryx/internal/application/vpn/dto"
	"noryx/internal/application/vpn/services"
	"noryx/internal/domain/subscription"
	"noryx/internal/domain/vpn"
	"noryx/internal/shared/errors"
	"noryx/internal/shared/logger"
)

// ConnectUseCase provisions on first use and returns connection material in
// the format the requesting device can consume.
type ConnectUseCase struct {
	subs         subscription.Repository
	countries    vpn.CountryRepository
	provisioning *services.ProvisioningService
	delivery     *services.DeliveryService
	connLog      vpn.ConnectionLogRepository
	logger       logger.Interface
}

func NewConnectUseCase(
	subs subscription.Repository,
	countries vpn.CountryRepository,
	provisioning *services.ProvisioningService,
	delivery *services.DeliveryService,
	connLog vpn.ConnectionLogRepository,
	log logger.Interface,
) *ConnectUseCase {
	return &ConnectUseCase{
		subs:         subs,
		countries:    countries,
		provisioning: provisioning,
		delivery:     delivery,
		connLog:      connLog,
		logger:       log,
	}
}

func (uc *ConnectUseCase) Execute(ctx context.Context, userID uint, userAgent, protocol, countryCode string) (*dto.ConnectResponse, error) {
	sub, err := uc.subs.FindUsableByUserID(ctx, userID, time.Now().UTC())
	if err != nil {
		if err == subscription.ErrNotFound {
			return nil, errors.NewNotFoundError("no active subscription")
		}
		return nil, err
	}

	if countryCode != "" {
		selected, err := resolveCountry(ctx, uc.countries, countryCode)
		if err != nil {
			return nil, err
		}
		if selected.Code != sub.CountryCode() {
			if err := sub.ChangeCountry(selected.Code); err != nil {
				return nil, errors.NewValidationError(err.Error())
			}
			if err := uc.subs.UpdateCountry(ctx, sub.ID(), selected.Code); err != nil {
				return nil, err
			}
		}
	}

	if _, err := uc.provisioning.EnsureClient(ctx, sub); err != nil {
		return nil, err
	}

	delivery, err := uc.delivery.Prepare(userAgent, sub, protocol)
	if err != nil {
		return nil, err
	}

	// The connect already succeeded; a failed audit write is not worth a 500.
	if logErr := uc.connLog.Create(ctx, &vpn.ConnectionLog{
		UserID:         userID,
		Platform:       delivery.Platform,
		DeliveryFormat: delivery.Format,
		CountryCode:    sub.CountryCode(),
		CreatedAt:      time.Now().UTC(),
	}); logErr != nil {
		uc.logger.Errorw("failed to record connection log", "user_id", userID, "error", logErr)
	}

	uc.logger.Infow("connection material delivered",
		"user_id", userID, "platform", delivery.Platform, "format", delivery.Format)

	return &dto.ConnectResponse{
		Platform:    string(delivery.Platform),
		Format:      string(delivery.Format),
		DeepLink:    delivery.DeepLink,
		QRCode:      delivery.QRCode,
		DownloadURL: delivery.DownloadURL,
		ExpiresIn:   delivery.ExpiresIn,
		CountryCode: sub.CountryCode(),
		ExpiresAt:   sub.ExpiresAt().UTC().Format(time.RFC3339),
	}, nil
}
