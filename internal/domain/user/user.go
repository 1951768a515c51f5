package user

import (
	"errors"
	"strings"
	"time"
)

// User is the minimal account projection the core needs: mailing recipients,
// notification addressing, and admin gating. Registration and credential
// handling live outside this service.
type User struct {
	id         uint
	email      string
	username   string
	trialUsed  bool
	isAdmin    bool
	lastSeenAt time.Time
	createdAt  time.Time
}

type ReconstructParams struct {
	ID         uint
	Email      string
	Username   string
	TrialUsed  bool
	IsAdmin    bool
	LastSeenAt time.Time
	CreatedAt  time.Time
}

func Reconstruct(p ReconstructParams) (*User, error) {
	if p.ID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	if p.Email == "" {
		return nil, errors.New("user email cannot be empty")
	}
	return &User{
		id:         p.ID,
		email:      p.Email,
		username:   p.Username,
		trialUsed:  p.TrialUsed,
		isAdmin:    p.IsAdmin,
		lastSeenAt: p.LastSeenAt,
		createdAt:  p.CreatedAt,
	}, nil
}

func (u *User) ID() uint              { return u.id }
func (u *User) Email() string         { return u.email }
func (u *User) Username() string      { return u.username }
func (u *User) TrialUsed() bool       { return u.trialUsed }
func (u *User) IsAdmin() bool         { return u.isAdmin }
func (u *User) LastSeenAt() time.Time { return u.lastSeenAt }
func (u *User) CreatedAt() time.Time  { return u.createdAt }

// DisplayName returns the username, falling back to the email local part.
func (u *User) DisplayName() string {
	if u.username != "" {
		return u.username
	}
	if at := strings.IndexByte(u.email, '@'); at > 0 {
		return u.email[:at]
	}
	return u.email
}
