package notification

import "time"

// HistoryEntry is an append-only record of one delivered notification, used by
// the expiry scan's dedup lookback.
type HistoryEntry struct {
	ID             uint
	UserID         uint
	Kind           Type
	Message        string
	SentAt         time.Time
	DeliveryStatus string
}
