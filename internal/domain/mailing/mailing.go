package mailing

import (
	"errors"
	"time"
)

// Status is the lifecycle of one bulk mailing.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusSending   Status = "sending"
	StatusSent      Status = "sent"
	// StatusPaused marks a mailing whose batch aborted unexpectedly; a human
	// inspects and resumes rather than recipients being lost silently.
	StatusPaused Status = "paused"
)

// Mailing is one scheduled bulk send to a named audience segment.
type Mailing struct {
	id          uint
	templateID  uint
	segment     Segment
	status      Status
	scheduledAt time.Time
	startedAt   *time.Time
	completedAt *time.Time
	sentCount   int
	failedCount int
}

type ReconstructParams struct {
	ID          uint
	TemplateID  uint
	Segment     Segment
	Status      Status
	ScheduledAt time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	SentCount   int
	FailedCount int
}

func Reconstruct(p ReconstructParams) (*Mailing, error) {
	if p.ID == 0 {
		return nil, errors.New("mailing ID cannot be zero")
	}
	if !p.Segment.IsValid() {
		return nil, errors.New("invalid mailing segment")
	}
	return &Mailing{
		id:          p.ID,
		templateID:  p.TemplateID,
		segment:     p.Segment,
		status:      p.Status,
		scheduledAt: p.ScheduledAt,
		startedAt:   p.StartedAt,
		completedAt: p.CompletedAt,
		sentCount:   p.SentCount,
		failedCount: p.FailedCount,
	}, nil
}

func (m *Mailing) ID() uint               { return m.id }
func (m *Mailing) TemplateID() uint       { return m.templateID }
func (m *Mailing) Segment() Segment       { return m.segment }
func (m *Mailing) Status() Status         { return m.status }
func (m *Mailing) ScheduledAt() time.Time { return m.scheduledAt }
func (m *Mailing) SentCount() int         { return m.sentCount }
func (m *Mailing) FailedCount() int       { return m.failedCount }

// Template is the rendered content of a mailing.
type Template struct {
	ID          uint
	Name        string
	Subject     string
	HTMLContent string
}

// HistoryEntry is one append-only per-recipient delivery record.
type HistoryEntry struct {
	ID             uint
	MailingID      uint
	UserID         uint
	SentAt         time.Time
	DeliveryStatus string
}
