package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"noryx/internal/domain/subscription"
	"noryx/internal/infrastructure/panel"
	"noryx/internal/shared/errors"
	"noryx/internal/shared/logger"
)

// PanelAPI is the slice of the provider panel this service consumes.
type PanelAPI interface {
	ListInbounds(ctx context.Context) ([]panel.Inbound, error)
	GetInbound(ctx context.Context, inboundID int) (*panel.Inbound, error)
	AddClient(ctx context.Context, settings panel.ClientSettings) error
	DeleteClient(ctx context.Context, inboundID int, email string) error
	UpdateClientTraffic(ctx context.Context, email string, quotaGB int64) error
	GetStats(ctx context.Context, inboundID int) (*panel.InboundStats, error)
	GetOnlineClients(ctx context.Context) ([]string, error)
}

// InboundSelector picks the inbound a new client attaches to. The default
// takes the first one the panel returns.
type InboundSelector func(inbounds []panel.Inbound) panel.Inbound

func FirstInbound(inbounds []panel.Inbound) panel.Inbound {
	return inbounds[0]
}

// ProvisioningService owns the lifecycle of panel-side client identities.
type ProvisioningService struct {
	panel     PanelAPI
	subs      subscription.Repository
	selector  InboundSelector
	trafficGB int
	logger    logger.Interface
	now       func() time.Time
}

func NewProvisioningService(panelAPI PanelAPI, subs subscription.Repository, trafficGB int, log logger.Interface) *ProvisioningService {
	if trafficGB <= 0 {
		trafficGB = 100
	}
	return &ProvisioningService{
		panel:     panelAPI,
		subs:      subs,
		selector:  FirstInbound,
		trafficGB: trafficGB,
		logger:    log.Named("provisioning"),
		now:       time.Now,
	}
}

// WithSelector replaces the inbound selection strategy.
func (s *ProvisioningService) WithSelector(selector InboundSelector) *ProvisioningService {
	s.selector = selector
	return s
}

// EnsureClient returns the subscription's provider identity, creating the
// panel-side client on first use. Repeated calls for a provisioned
// subscription reuse the stored identity without touching the panel.
func (s *ProvisioningService) EnsureClient(ctx context.Context, sub *subscription.Subscription) (*subscription.ProviderIdentity, error) {
	if identity := sub.Provider(); identity != nil {
		return identity, nil
	}

	inbounds, err := s.panel.ListInbounds(ctx)
	if err != nil {
		return nil, err
	}
	if len(inbounds) == 0 {
		return nil, errors.NewNoInboundsError()
	}
	inbound := s.selector(inbounds)

	identity := subscription.ProviderIdentity{
		ClientID:    uuid.NewString(),
		ClientEmail: clientLabel(sub.UserID(), s.now()),
		InboundID:   inbound.ID,
	}

	if err := s.panel.AddClient(ctx, panel.ClientSettings{
		ID:         identity.ClientID,
		Email:      identity.ClientEmail,
		InboundID:  identity.InboundID,
		TotalGB:    int64(s.trafficGB) * 1_000_000_000,
		ExpiryTime: sub.ExpiresAt().UnixMilli(),
		Enable:     true,
	}); err != nil {
		return nil, err
	}

	if err := s.subs.UpdateProviderIdentity(ctx, sub.ID(), &identity); err != nil {
		// Roll the panel client back so a failed persist leaves no orphan.
		if delErr := s.panel.DeleteClient(ctx, identity.InboundID, identity.ClientEmail); delErr != nil {
			s.logger.Errorw("failed to roll back panel client after persist failure",
				"subscription_id", sub.ID(), "client_email", identity.ClientEmail, "error", delErr)
		}
		return nil, fmt.Errorf("failed to persist provider identity: %w", err)
	}

	if attachErr := sub.AttachProvider(identity); attachErr != nil {
		return nil, fmt.Errorf("failed to attach provider identity: %w", attachErr)
	}

	s.logger.Infow("provisioned panel client",
		"subscription_id", sub.ID(), "user_id", sub.UserID(),
		"inbound_id", identity.InboundID, "client_email", identity.ClientEmail)

	return &identity, nil
}

// Revoke deletes the panel-side client and clears the stored identity. It
// reports whether a client was actually revoked: a subscription that was
// never provisioned returns false with no error.
func (s *ProvisioningService) Revoke(ctx context.Context, sub *subscription.Subscription) (bool, error) {
	identity := sub.Provider()
	if identity == nil {
		return false, nil
	}

	if err := s.panel.DeleteClient(ctx, identity.InboundID, identity.ClientEmail); err != nil {
		return false, err
	}

	if err := s.subs.UpdateProviderIdentity(ctx, sub.ID(), nil); err != nil {
		return false, fmt.Errorf("failed to clear provider identity: %w", err)
	}
	sub.DetachProvider()

	s.logger.Infow("revoked panel client",
		"subscription_id", sub.ID(), "client_email", identity.ClientEmail)

	return true, nil
}

// ResetTraffic applies a traffic quota to the panel client. A non-positive
// quota reapplies the configured default.
func (s *ProvisioningService) ResetTraffic(ctx context.Context, sub *subscription.Subscription, quotaGB int) error {
	identity := sub.Provider()
	if identity == nil {
		return errors.NewNotProvisionedError("subscription has no panel client")
	}
	if quotaGB <= 0 {
		quotaGB = s.trafficGB
	}
	return s.panel.UpdateClientTraffic(ctx, identity.ClientEmail, int64(quotaGB))
}

// InboundStats returns panel traffic counters for the subscription's inbound.
func (s *ProvisioningService) InboundStats(ctx context.Context, sub *subscription.Subscription) (*panel.InboundStats, error) {
	identity := sub.Provider()
	if identity == nil {
		return nil, errors.NewNotProvisionedError("subscription has no panel client")
	}
	return s.panel.GetStats(ctx, identity.InboundID)
}

// InboundProtocol reports the protocol of the inbound the subscription's
// client is attached to. Best effort: a panel failure logs and reads empty.
func (s *ProvisioningService) InboundProtocol(ctx context.Context, sub *subscription.Subscription) string {
	identity := sub.Provider()
	if identity == nil {
		return ""
	}
	inbound, err := s.panel.GetInbound(ctx, identity.InboundID)
	if err != nil {
		s.logger.Warnw("failed to fetch inbound", "inbound_id", identity.InboundID, "error", err)
		return ""
	}
	return inbound.Protocol
}

// ClientOnline reports whether the subscription's panel client has a live
// connection. Best effort: a panel failure logs and reads as offline.
func (s *ProvisioningService) ClientOnline(ctx context.Context, sub *subscription.Subscription) bool {
	identity := sub.Provider()
	if identity == nil {
		return false
	}
	online, err := s.panel.GetOnlineClients(ctx)
	if err != nil {
		s.logger.Warnw("failed to fetch online clients", "error", err)
		return false
	}
	for _, email := range online {
		if email == identity.ClientEmail {
			return true
		}
	}
	return false
}

// CleanupExpired deletes panel clients for subscriptions that ended but still
// carry identifiers. One failed delete does not stop the sweep.
func (s *ProvisioningService) CleanupExpired(ctx context.Context) (cleaned, failed int, err error) {
	stale, err := s.subs.ListTerminalProvisioned(ctx, s.now().UTC())
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list stale subscriptions: %w", err)
	}

	for _, sub := range stale {
		revoked, revokeErr := s.Revoke(ctx, sub)
		if revokeErr != nil {
			failed++
			s.logger.Errorw("failed to clean up panel client",
				"subscription_id", sub.ID(), "error", revokeErr)
			continue
		}
		if revoked {
			cleaned++
		}
	}

	if cleaned > 0 || failed > 0 {
		s.logger.Infow("cleanup sweep finished", "cleaned", cleaned, "failed", failed)
	}
	return cleaned, failed, nil
}

// clientLabel builds the synthetic per-client email the panel keys clients by.
func clientLabel(userID uint, at time.Time) string {
	return fmt.Sprintf("user_%d_%d@noryx.vpn", userID, at.UnixMilli())
}
