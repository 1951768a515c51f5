package mailing

import (
	"context"
	"time"
)

type Repository interface {
	// ListDue returns mailings in scheduled status whose scheduled time is at
	// or before now.
	ListDue(ctx context.Context, now time.Time) ([]*Mailing, error)

	MarkSending(ctx context.Context, id uint, startedAt time.Time) error
	Complete(ctx context.Context, id uint, completedAt time.Time, sent, failed int) error
	Pause(ctx context.Context, id uint) error
}

type TemplateRepository interface {
	GetByID(ctx context.Context, id uint) (*Template, error)
}

type HistoryRepository interface {
	Create(ctx context.Context, entry *HistoryEntry) error
}
