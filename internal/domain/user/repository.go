package user

import (
	"context"

	"noryx/internal/domain/mailing"
)

// Repository reads user rows owned by the excluded account subsystem.
type Repository interface {
	GetByID(ctx context.Context, id uint) (*User, error)

	// ListBySegment resolves a mailing audience segment to its recipients.
	ListBySegment(ctx context.Context, segment mailing.Segment) ([]*User, error)
}
