package usecases

import (
	"context"
	"time"

	"noryx/internal/application/vpn/services"
	"noryx/internal/domain/subscription"
	"noryx/internal/infrastructure/token"
	"noryx/internal/shared/errors"
	"noryx/internal/shared/logger"
)

// DownloadConfigUseCase exchanges a short-lived download token for the config
// file body. Every failure mode maps to the same invalid-token error so the
// response does not reveal which check tripped.
type DownloadConfigUseCase struct {
	tokens   *token.DownloadTokenService
	subs     subscription.Repository
	delivery *services.DeliveryService
	logger   logger.Interface
}

func NewDownloadConfigUseCase(
	tokens *token.DownloadTokenService,
	subs subscription.Repository,
	delivery *services.DeliveryService,
	log logger.Interface,
) *DownloadConfigUseCase {
	return &DownloadConfigUseCase{
		tokens:   tokens,
		subs:     subs,
		delivery: delivery,
		logger:   log,
	}
}

func (uc *DownloadConfigUseCase) Execute(ctx context.Context, rawToken string) (filename string, body []byte, err error) {
	claims, err := uc.tokens.Verify(rawToken)
	if err != nil {
		return "", nil, err
	}

	sub, err := uc.subs.FindUsableByUserID(ctx, claims.UserID, time.Now().UTC())
	if err != nil {
		uc.logger.Warnw("download token for unusable subscription", "user_id", claims.UserID)
		return "", nil, errors.NewInvalidTokenError()
	}

	identity := sub.Provider()
	if identity == nil || identity.ClientEmail != claims.SubscriptionRef {
		uc.logger.Warnw("download token does not match provisioned identity", "user_id", claims.UserID)
		return "", nil, errors.NewInvalidTokenError()
	}

	return services.ConfigFileName, uc.delivery.ConfigFile(identity, ""), nil
}
