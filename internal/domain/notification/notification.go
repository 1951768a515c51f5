package notification

import (
	"errors"
	"time"
)

// Type identifies one expiry-notification window. Subscription and trial
// windows are distinct so templates can differ.
type Type string

const (
	TypeSubscriptionExpiry24h Type = "subscription_expiry_24h"
	TypeSubscriptionExpiry10h Type = "subscription_expiry_10h"
	TypeSubscriptionExpiry0h  Type = "subscription_expiry_0h"
	TypeTrialExpiry24h        Type = "trial_expiry_24h"
	TypeTrialExpiry10h        Type = "trial_expiry_10h"
	TypeTrialExpiry0h         Type = "trial_expiry_0h"
)

// Notification is one user-visible message row.
type Notification struct {
	id      uint
	userID  uint
	kind    Type
	title   string
	message string
	data    string
	sentAt  time.Time
}

func NewNotification(userID uint, kind Type, title, message, data string, sentAt time.Time) (*Notification, error) {
	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	if message == "" {
		return nil, errors.New("notification message cannot be empty")
	}
	return &Notification{
		userID:  userID,
		kind:    kind,
		title:   title,
		message: message,
		data:    data,
		sentAt:  sentAt,
	}, nil
}

func (n *Notification) ID() uint          { return n.id }
func (n *Notification) UserID() uint      { return n.userID }
func (n *Notification) Kind() Type        { return n.kind }
func (n *Notification) Title() string     { return n.title }
func (n *Notification) Message() string   { return n.message }
func (n *Notification) Data() string      { return n.data }
func (n *Notification) SentAt() time.Time { return n.sentAt }

func (n *Notification) SetID(id uint) error {
	if n.id != 0 {
		return errors.New("notification ID already set")
	}
	n.id = id
	return nil
}
