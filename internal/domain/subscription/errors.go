package subscription

import "errors"

var (
	// ErrAlreadyTerminal is returned when a lifecycle transition is applied to
	// a cancelled or expired subscription.
	ErrAlreadyTerminal = errors.New("subscription is already in a terminal state")

	// ErrNotFound is returned by repositories when no matching row exists.
	ErrNotFound = errors.New("subscription not found")
)
