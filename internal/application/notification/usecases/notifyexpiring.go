package usecases

import (
	"context"
	"fmt"
	"time"

	"noryx/internal/domain/notification"
	"noryx/internal/domain/subscription"
	"noryx/internal/domain/user"
	"noryx/internal/infrastructure/email"
	"noryx/internal/shared/biztime"
	"noryx/internal/shared/logger"
)

// expiryWindows are the hour marks a reminder fires at. Each scan matches
// subscriptions within half an hour of a mark, so an hourly scan hits each
// window exactly once under normal operation.
var expiryWindows = []float64{24, 10, 0}

const windowTolerance = 0.5

// dedupLookback bounds the window-repeat check. A subscription sitting inside
// the same window across two scans sends once, not twice.
const dedupLookback = time.Hour

// NotifyExpiringUseCase is the hourly expiry scan: it reminds users whose
// subscriptions approach a window mark and finalizes those past expiry.
type NotifyExpiringUseCase struct {
	subs      subscription.Repository
	tariffs   subscription.TariffRepository
	users     user.Repository
	notifs    notification.Repository
	history   notification.HistoryRepository
	templates notification.TemplateRepository
	mailer    email.Mailer
	logger    logger.Interface
	now       func() time.Time
}

func NewNotifyExpiringUseCase(
	subs subscription.Repository,
	tariffs subscription.TariffRepository,
	users user.Repository,
	notifs notification.Repository,
	history notification.HistoryRepository,
	templates notification.TemplateRepository,
	mailer email.Mailer,
	log logger.Interface,
) *NotifyExpiringUseCase {
	return &NotifyExpiringUseCase{
		subs:      subs,
		tariffs:   tariffs,
		users:     users,
		notifs:    notifs,
		history:   history,
		templates: templates,
		mailer:    mailer,
		logger:    log.Named("expiry-scan"),
		now:       biztime.NowUTC,
	}
}

// WithClock fixes the scan's clock. Test hook.
func (uc *NotifyExpiringUseCase) WithClock(now func() time.Time) *NotifyExpiringUseCase {
	uc.now = now
	return uc
}

func (uc *NotifyExpiringUseCase) Execute(ctx context.Context) error {
	now := uc.now()

	subs, err := uc.subs.ListExpiring(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subscriptions for expiry scan: %w", err)
	}

	var notified, expired int
	for _, sub := range subs {
		window, ok := matchWindow(sub.HoursUntilExpiry(now))
		if !ok {
			continue
		}

		kind := windowKind(sub.Status(), window)

		recent, err := uc.history.CountRecent(ctx, sub.UserID(), kind, now.Add(-dedupLookback))
		if err != nil {
			uc.logger.Errorw("dedup lookup failed", "subscription_id", sub.ID(), "error", err)
			continue
		}
		if recent > 0 {
			continue
		}

		if err := uc.notify(ctx, sub, kind, window, now); err != nil {
			uc.logger.Errorw("failed to notify user",
				"subscription_id", sub.ID(), "user_id", sub.UserID(), "kind", kind, "error", err)
			continue
		}
		notified++

		if window == 0 {
			if err := uc.finalize(ctx, sub); err != nil {
				uc.logger.Errorw("failed to mark subscription expired",
					"subscription_id", sub.ID(), "error", err)
				continue
			}
			expired++
		}
	}

	if notified > 0 || expired > 0 {
		uc.logger.Infow("expiry scan finished", "notified", notified, "expired", expired)
	}
	return nil
}

func (uc *NotifyExpiringUseCase) notify(ctx context.Context, sub *subscription.Subscription, kind notification.Type, window float64, now time.Time) error {
	recipient, err := uc.users.GetByID(ctx, sub.UserID())
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	subject, body := uc.render(ctx, kind, map[string]string{
		"username":    recipient.DisplayName(),
		"tariff_name": uc.tariffName(ctx, sub.TariffID()),
		"time_text":   timeText(window),
		"expiry_date": biztime.FormatDate(sub.ExpiresAt()),
		"expiry_time": biztime.FormatClock(sub.ExpiresAt()),
	}, window)

	notif, err := notification.NewNotification(sub.UserID(), kind, subject, body, "", now)
	if err != nil {
		return err
	}
	if err := uc.notifs.Create(ctx, notif); err != nil {
		return err
	}

	status := "sent"
	if err := uc.mailer.Send(recipient.Email(), subject, body); err != nil {
		status = "failed"
		uc.logger.Warnw("email delivery failed", "user_id", sub.UserID(), "error", err)
	}

	return uc.history.Create(ctx, &notification.HistoryEntry{
		UserID:         sub.UserID(),
		Kind:           kind,
		Message:        body,
		SentAt:         now,
		DeliveryStatus: status,
	})
}

// render resolves the admin-managed template for the kind, falling back to a
// built-in message when none is active.
func (uc *NotifyExpiringUseCase) render(ctx context.Context, kind notification.Type, data map[string]string, window float64) (subject, body string) {
	tmpl, err := uc.templates.GetActiveByKind(ctx, kind)
	if err != nil {
		uc.logger.Warnw("template lookup failed, using fallback", "kind", kind, "error", err)
	}
	if tmpl != nil {
		return notification.Interpolate(tmpl.Subject, data), notification.Interpolate(tmpl.Message, data)
	}

	if window == 0 {
		return "Your VPN access has expired",
			fmt.Sprintf("Hi %s, your %s subscription expired on %s at %s. Renew to restore access.",
				data["username"], data["tariff_name"], data["expiry_date"], data["expiry_time"])
	}
	return fmt.Sprintf("Your VPN access expires in %s", data["time_text"]),
		fmt.Sprintf("Hi %s, your %s subscription expires on %s at %s.",
			data["username"], data["tariff_name"], data["expiry_date"], data["expiry_time"])
}

// tariffName resolves the plan's display name, falling back to a generic
// label so a missing tariff row never blocks a reminder.
func (uc *NotifyExpiringUseCase) tariffName(ctx context.Context, tariffID uint) string {
	tariff, err := uc.tariffs.GetByID(ctx, tariffID)
	if err != nil {
		uc.logger.Warnw("tariff lookup failed, using fallback name", "tariff_id", tariffID, "error", err)
		return "VPN"
	}
	return tariff.Name()
}

// timeText phrases the window mark for template text.
func timeText(window float64) string {
	if window == 0 {
		return "now"
	}
	return fmt.Sprintf("%d hours", int(window))
}

func (uc *NotifyExpiringUseCase) finalize(ctx context.Context, sub *subscription.Subscription) error {
	if err := sub.MarkExpired(); err != nil {
		return err
	}
	return uc.subs.UpdateStatus(ctx, sub.ID(), subscription.StatusExpired)
}

// matchWindow reports the window mark the remaining hours fall into, if any.
func matchWindow(hoursLeft float64) (float64, bool) {
	for _, window := range expiryWindows {
		if hoursLeft >= window-windowTolerance && hoursLeft < window+windowTolerance {
			return window, true
		}
	}
	return 0, false
}

// windowKind maps a status and window mark to the notification kind, keeping
// trial and paid reminders on separate templates.
func windowKind(status subscription.Status, window float64) notification.Type {
	trial := status == subscription.StatusTrial
	switch window {
	case 24:
		if trial {
			return notification.TypeTrialExpiry24h
		}
		return notification.TypeSubscriptionExpiry24h
	case 10:
		if trial {
			return notification.TypeTrialExpiry10h
		}
		return notification.TypeSubscriptionExpiry10h
	default:
		if trial {
			return notification.TypeTrialExpiry0h
		}
		return notification.TypeSubscriptionExpiry0h
	}
}
