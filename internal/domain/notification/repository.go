package notification

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, notif *Notification) error
}

type HistoryRepository interface {
	Create(ctx context.Context, entry *HistoryEntry) error

	// CountRecent counts history rows of the given kind for the user sent at
	// or after since. Used as the dedup lookback; a heuristic, not a strict
	// guarantee (see the expiry scan use case).
	CountRecent(ctx context.Context, userID uint, kind Type, since time.Time) (int64, error)
}

type TemplateRepository interface {
	// GetActiveByKind returns the active template for a notification kind, or
	// nil when none is configured.
	GetActiveByKind(ctx context.Context, kind Type) (*Template, error)
}
