package usecases

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"noryx/internal/domain/mailing"
	"noryx/internal/domain/notification"
	"noryx/internal/domain/user"
	"noryx/internal/infrastructure/email"
	"noryx/internal/shared/biztime"
	"noryx/internal/shared/logger"
)

// ProcessMailingsUseCase drains due bulk mailings. Each mailing resolves its
// audience segment, sends per recipient, and records per-recipient history.
// A mailing whose batch aborts is parked in paused status for operator review
// instead of silently losing the remaining recipients.
type ProcessMailingsUseCase struct {
	mailings  mailing.Repository
	templates mailing.TemplateRepository
	history   mailing.HistoryRepository
	users     user.Repository
	mailer    email.Mailer
	logger    logger.Interface
	now       func() time.Time
}

func NewProcessMailingsUseCase(
	mailings mailing.Repository,
	templates mailing.TemplateRepository,
	history mailing.HistoryRepository,
	users user.Repository,
	mailer email.Mailer,
	log logger.Interface,
) *ProcessMailingsUseCase {
	return &ProcessMailingsUseCase{
		mailings:  mailings,
		templates: templates,
		history:   history,
		users:     users,
		mailer:    mailer,
		logger:    log.Named("mailing-drain"),
		now:       biztime.NowUTC,
	}
}

// WithClock fixes the drain's clock. Test hook.
func (uc *ProcessMailingsUseCase) WithClock(now func() time.Time) *ProcessMailingsUseCase {
	uc.now = now
	return uc
}

func (uc *ProcessMailingsUseCase) Execute(ctx context.Context) error {
	due, err := uc.mailings.ListDue(ctx, uc.now())
	if err != nil {
		return fmt.Errorf("failed to list due mailings: %w", err)
	}

	for _, item := range due {
		if err := uc.process(ctx, item); err != nil {
			uc.logger.Errorw("mailing batch aborted", "mailing_id", item.ID(), "error", err)
			if pauseErr := uc.mailings.Pause(ctx, item.ID()); pauseErr != nil {
				uc.logger.Errorw("failed to pause aborted mailing",
					"mailing_id", item.ID(), "error", pauseErr)
			}
		}
	}
	return nil
}

func (uc *ProcessMailingsUseCase) process(ctx context.Context, item *mailing.Mailing) error {
	if err := uc.mailings.MarkSending(ctx, item.ID(), uc.now()); err != nil {
		return fmt.Errorf("failed to claim mailing: %w", err)
	}

	tmpl, err := uc.templates.GetByID(ctx, item.TemplateID())
	if err != nil {
		return fmt.Errorf("failed to load template %d: %w", item.TemplateID(), err)
	}

	recipients, err := uc.users.ListBySegment(ctx, item.Segment())
	if err != nil {
		return fmt.Errorf("failed to resolve segment %s: %w", item.Segment(), err)
	}

	var sent, failed int
	for _, recipient := range recipients {
		subject, body := renderForRecipient(tmpl, recipient)

		status := "sent"
		if err := uc.mailer.Send(recipient.Email(), subject, body); err != nil {
			status = "failed"
			failed++
			uc.logger.Warnw("mailing delivery failed",
				"mailing_id", item.ID(), "user_id", recipient.ID(), "error", err)
		} else {
			sent++
		}

		if err := uc.history.Create(ctx, &mailing.HistoryEntry{
			MailingID:      item.ID(),
			UserID:         recipient.ID(),
			SentAt:         uc.now(),
			DeliveryStatus: status,
		}); err != nil {
			uc.logger.Errorw("failed to record mailing history",
				"mailing_id", item.ID(), "user_id", recipient.ID(), "error", err)
		}
	}

	if err := uc.mailings.Complete(ctx, item.ID(), uc.now(), sent, failed); err != nil {
		return fmt.Errorf("failed to complete mailing: %w", err)
	}

	uc.logger.Infow("mailing drained",
		"mailing_id", item.ID(), "segment", item.Segment(), "sent", sent, "failed", failed)
	return nil
}

// renderForRecipient substitutes the recipient placeholders into the template
// subject and body.
func renderForRecipient(tmpl *mailing.Template, recipient *user.User) (subject, body string) {
	data := map[string]string{
		"username": recipient.DisplayName(),
		"email":    recipient.Email(),
		"user_id":  strconv.FormatUint(uint64(recipient.ID()), 10),
	}
	return notification.Interpolate(tmpl.Subject, data), notification.Interpolate(tmpl.HTMLContent, data)
}
