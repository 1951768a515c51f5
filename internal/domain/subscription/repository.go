package subscription

import (
	"context"
	"time"
)

// Repository persists subscriptions. Provider identifier updates are id-scoped
// single-row writes so that the triplet is stored or cleared atomically.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)

	// FindUsableByUserID returns the newest active or trial subscription for
	// the user whose expiry is after now, or ErrNotFound.
	FindUsableByUserID(ctx context.Context, userID uint, now time.Time) (*Subscription, error)

	// UpdateProviderIdentity writes the full identifier triplet in one update.
	// A nil identity clears all three columns.
	UpdateProviderIdentity(ctx context.Context, id uint, identity *ProviderIdentity) error

	UpdateStatus(ctx context.Context, id uint, status Status) error
	UpdateCountry(ctx context.Context, id uint, countryCode string) error

	// ListExpiring returns active and trial subscriptions ordered by soonest expiry.
	ListExpiring(ctx context.Context) ([]*Subscription, error)

	// ListTerminalProvisioned returns subscriptions that are cancelled or past
	// expiry but still carry provider identifiers.
	ListTerminalProvisioned(ctx context.Context, now time.Time) ([]*Subscription, error)
}
