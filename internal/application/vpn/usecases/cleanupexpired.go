package usecases

import (
	"context"

	"noryx/internal/application/vpn/dto"
	"noryx/internal/application/vpn/services"
)

// CleanupExpiredUseCase sweeps panel clients left behind by ended
// subscriptions. Invoked by the scheduler and the admin endpoint.
type CleanupExpiredUseCase struct {
	provisioning *services.ProvisioningService
}

func NewCleanupExpiredUseCase(provisioning *services.ProvisioningService) *CleanupExpiredUseCase {
	return &CleanupExpiredUseCase{provisioning: provisioning}
}

func (uc *CleanupExpiredUseCase) Execute(ctx context.Context) (*dto.CleanupResponse, error) {
	cleaned, failed, err := uc.provisioning.CleanupExpired(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CleanupResponse{Cleaned: cleaned, Failed: failed}, nil
}
