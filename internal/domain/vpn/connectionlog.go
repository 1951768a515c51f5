package vpn

import (
	"context"
	"time"
)

// ConnectionLog is an immutable audit row for one successful connect. Rows are
// append-only; the core never updates or deletes them.
type ConnectionLog struct {
	ID             uint
	UserID         uint
	Platform       Platform
	DeliveryFormat DeliveryFormat
	CountryCode    string
	CreatedAt      time.Time
}

type ConnectionLogRepository interface {
	Create(ctx context.Context, entry *ConnectionLog) error
}

// Country is one selectable VPN exit country.
type Country struct {
	Code        string
	Name        string
	FlagEmoji   string
	IsAvailable bool
	Priority    int
}

type CountryRepository interface {
	// ListAvailable returns available countries ordered by priority descending.
	ListAvailable(ctx context.Context) ([]*Country, error)
}
