package subscription

import (
	"errors"
	"time"
)

// Status represents the lifecycle state of a subscription.
type Status string

const (
	StatusTrial     Status = "trial"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusTrial, StatusActive, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further use.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusExpired
}

// ProviderIdentity is the identifier triplet the provider panel assigns to a
// provisioned VPN client. The three fields are always present together; a
// subscription never persists a partial triplet.
type ProviderIdentity struct {
	ClientID    string
	ClientEmail string
	InboundID   int
}

// Subscription represents one user's paid or trial access window.
type Subscription struct {
	id          uint
	userID      uint
	tariffID    uint
	status      Status
	startsAt    time.Time
	expiresAt   time.Time
	countryCode string
	provider    *ProviderIdentity
	createdAt   time.Time
	updatedAt   time.Time
}

// NewSubscription creates a subscription in the given initial status.
func NewSubscription(userID, tariffID uint, status Status, startsAt, expiresAt time.Time) (*Subscription, error) {
	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	if status != StatusTrial && status != StatusActive {
		return nil, errors.New("new subscription must start as trial or active")
	}
	if !expiresAt.After(startsAt) {
		return nil, errors.New("expiry must be after start")
	}

	now := time.Now().UTC()
	return &Subscription{
		userID:      userID,
		tariffID:    tariffID,
		status:      status,
		startsAt:    startsAt,
		expiresAt:   expiresAt,
		countryCode: "auto",
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructParams carries persisted state back into the entity.
type ReconstructParams struct {
	ID          uint
	UserID      uint
	TariffID    uint
	Status      Status
	StartsAt    time.Time
	ExpiresAt   time.Time
	CountryCode string
	Provider    *ProviderIdentity
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reconstruct rebuilds a Subscription from storage.
func Reconstruct(p ReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, errors.New("subscription ID cannot be zero")
	}
	if !p.Status.IsValid() {
		return nil, errors.New("invalid subscription status")
	}
	return &Subscription{
		id:          p.ID,
		userID:      p.UserID,
		tariffID:    p.TariffID,
		status:      p.Status,
		startsAt:    p.StartsAt,
		expiresAt:   p.ExpiresAt,
		countryCode: p.CountryCode,
		provider:    p.Provider,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint             { return s.id }
func (s *Subscription) UserID() uint         { return s.userID }
func (s *Subscription) TariffID() uint       { return s.tariffID }
func (s *Subscription) Status() Status       { return s.status }
func (s *Subscription) StartsAt() time.Time  { return s.startsAt }
func (s *Subscription) ExpiresAt() time.Time { return s.expiresAt }
func (s *Subscription) CountryCode() string  { return s.countryCode }
func (s *Subscription) CreatedAt() time.Time { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time { return s.updatedAt }

// Provider returns the provisioned identity, or nil when not provisioned.
func (s *Subscription) Provider() *ProviderIdentity {
	if s.provider == nil {
		return nil
	}
	identity := *s.provider
	return &identity
}

// IsProvisioned reports whether a provider-side client exists for this subscription.
func (s *Subscription) IsProvisioned() bool {
	return s.provider != nil
}

// IsUsable reports whether the subscription grants access at the given instant.
func (s *Subscription) IsUsable(now time.Time) bool {
	return (s.status == StatusActive || s.status == StatusTrial) && now.Before(s.expiresAt)
}

// HoursUntilExpiry returns the signed hours remaining until expiry.
func (s *Subscription) HoursUntilExpiry(now time.Time) float64 {
	return s.expiresAt.Sub(now).Hours()
}

func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return errors.New("subscription ID already set")
	}
	s.id = id
	return nil
}

// AttachProvider records the provider identifier triplet. All three fields must
// be present; partial provisioning state is never stored.
func (s *Subscription) AttachProvider(identity ProviderIdentity) error {
	if identity.ClientID == "" || identity.ClientEmail == "" || identity.InboundID == 0 {
		return errors.New("provider identity must be complete")
	}
	s.provider = &identity
	s.updatedAt = time.Now().UTC()
	return nil
}

// DetachProvider clears the provider identifier triplet after a panel-side delete.
func (s *Subscription) DetachProvider() {
	s.provider = nil
	s.updatedAt = time.Now().UTC()
}

// ChangeCountry updates the preferred country selection.
func (s *Subscription) ChangeCountry(code string) error {
	if code == "" {
		return errors.New("country code cannot be empty")
	}
	s.countryCode = code
	s.updatedAt = time.Now().UTC()
	return nil
}

// MarkExpired transitions the subscription to expired.
func (s *Subscription) MarkExpired() error {
	if s.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	s.status = StatusExpired
	s.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the subscription to cancelled.
func (s *Subscription) Cancel() error {
	if s.status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	s.status = StatusCancelled
	s.updatedAt = time.Now().UTC()
	return nil
}
