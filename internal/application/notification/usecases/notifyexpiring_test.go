package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noryx/internal/domain/mailing"
	"noryx/internal/domain/notification"
	"noryx/internal/domain/subscription"
	"noryx/internal/domain/user"
	"noryx/internal/shared/logger"
)

var scanNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeSubRepo struct {
	subscription.Repository

	expiring []*subscription.Subscription
	statuses map[uint]subscription.Status
}

func (f *fakeSubRepo) ListExpiring(_ context.Context) ([]*subscription.Subscription, error) {
	return f.expiring, nil
}

func (f *fakeSubRepo) UpdateStatus(_ context.Context, id uint, status subscription.Status) error {
	if f.statuses == nil {
		f.statuses = make(map[uint]subscription.Status)
	}
	f.statuses[id] = status
	return nil
}

type fakeTariffRepo struct {
	err error
}

func (f *fakeTariffRepo) GetByID(_ context.Context, id uint) (*subscription.Tariff, error) {
	if f.err != nil {
		return nil, f.err
	}
	return subscription.ReconstructTariff(id, "Premium")
}

type fakeUserRepo struct{}

func (fakeUserRepo) GetByID(_ context.Context, id uint) (*user.User, error) {
	return user.Reconstruct(user.ReconstructParams{
		ID:       id,
		Email:    "person@example.com",
		Username: "person",
	})
}

func (fakeUserRepo) ListBySegment(_ context.Context, _ mailing.Segment) ([]*user.User, error) {
	return nil, nil
}

type fakeNotifRepo struct {
	created []*notification.Notification
}

func (f *fakeNotifRepo) Create(_ context.Context, n *notification.Notification) error {
	f.created = append(f.created, n)
	return nil
}

type fakeHistoryRepo struct {
	entries []*notification.HistoryEntry
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *notification.HistoryEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistoryRepo) CountRecent(_ context.Context, userID uint, kind notification.Type, since time.Time) (int64, error) {
	var count int64
	for _, entry := range f.entries {
		if entry.UserID == userID && entry.Kind == kind && !entry.SentAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeTemplateRepo struct {
	tmpl *notification.Template
}

func (f *fakeTemplateRepo) GetActiveByKind(_ context.Context, _ notification.Type) (*notification.Template, error) {
	return f.tmpl, nil
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) Send(to, _, _ string) error {
	m.sent = append(m.sent, to)
	return nil
}

func expiringSub(t *testing.T, id uint, status subscription.Status, expiresIn time.Duration) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.Reconstruct(subscription.ReconstructParams{
		ID:        id,
		UserID:    id,
		TariffID:  1,
		Status:    status,
		StartsAt:  scanNow.Add(-30 * 24 * time.Hour),
		ExpiresAt: scanNow.Add(expiresIn),
		CreatedAt: scanNow.Add(-30 * 24 * time.Hour),
		UpdatedAt: scanNow,
	})
	require.NoError(t, err)
	return sub
}

func newScan(subs *fakeSubRepo, history *fakeHistoryRepo, tmpl *notification.Template, mailer *recordingMailer) (*NotifyExpiringUseCase, *fakeNotifRepo) {
	notifs := &fakeNotifRepo{}
	uc := NewNotifyExpiringUseCase(
		subs, &fakeTariffRepo{}, fakeUserRepo{}, notifs, history, &fakeTemplateRepo{tmpl: tmpl}, mailer,
		logger.NewLogger(),
	).WithClock(func() time.Time { return scanNow })
	return uc, notifs
}

func TestExpiryScan_MatchesWindowMarks(t *testing.T) {
	tests := []struct {
		name      string
		expiresIn time.Duration
		wantKind  notification.Type
		wantSent  bool
	}{
		{"24h mark", 24 * time.Hour, notification.TypeSubscriptionExpiry24h, true},
		{"24h lower edge", 23*time.Hour + 31*time.Minute, notification.TypeSubscriptionExpiry24h, true},
		{"10h mark", 10 * time.Hour, notification.TypeSubscriptionExpiry10h, true},
		{"expiry mark", 15 * time.Minute, notification.TypeSubscriptionExpiry0h, true},
		{"between windows", 17 * time.Hour, "", false},
		{"beyond 24h window", 25 * time.Hour, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := &fakeSubRepo{expiring: []*subscription.Subscription{
				expiringSub(t, 1, subscription.StatusActive, tt.expiresIn),
			}}
			mailer := &recordingMailer{}
			uc, notifs := newScan(subs, &fakeHistoryRepo{}, nil, mailer)

			require.NoError(t, uc.Execute(context.Background()))

			if !tt.wantSent {
				assert.Empty(t, notifs.created)
				return
			}
			require.Len(t, notifs.created, 1)
			assert.Equal(t, tt.wantKind, notifs.created[0].Kind())
			assert.Equal(t, []string{"person@example.com"}, mailer.sent)
		})
	}
}

func TestExpiryScan_DedupWithinLookback(t *testing.T) {
	history := &fakeHistoryRepo{entries: []*notification.HistoryEntry{{
		UserID: 1,
		Kind:   notification.TypeSubscriptionExpiry24h,
		SentAt: scanNow.Add(-30 * time.Minute),
	}}}
	subs := &fakeSubRepo{expiring: []*subscription.Subscription{
		expiringSub(t, 1, subscription.StatusActive, 24*time.Hour),
	}}
	uc, notifs := newScan(subs, history, nil, &recordingMailer{})

	require.NoError(t, uc.Execute(context.Background()))
	assert.Empty(t, notifs.created, "window already notified within the lookback")
}

func TestExpiryScan_StaleHistoryDoesNotDedup(t *testing.T) {
	history := &fakeHistoryRepo{entries: []*notification.HistoryEntry{{
		UserID: 1,
		Kind:   notification.TypeSubscriptionExpiry24h,
		SentAt: scanNow.Add(-2 * time.Hour),
	}}}
	subs := &fakeSubRepo{expiring: []*subscription.Subscription{
		expiringSub(t, 1, subscription.StatusActive, 24*time.Hour),
	}}
	uc, notifs := newScan(subs, history, nil, &recordingMailer{})

	require.NoError(t, uc.Execute(context.Background()))
	assert.Len(t, notifs.created, 1)
}

func TestExpiryScan_ZeroWindowMarksExpired(t *testing.T) {
	subs := &fakeSubRepo{expiring: []*subscription.Subscription{
		expiringSub(t, 1, subscription.StatusActive, 10*time.Minute),
	}}
	uc, _ := newScan(subs, &fakeHistoryRepo{}, nil, &recordingMailer{})

	require.NoError(t, uc.Execute(context.Background()))
	assert.Equal(t, subscription.StatusExpired, subs.statuses[1])
}

func TestExpiryScan_TrialUsesTrialTemplates(t *testing.T) {
	subs := &fakeSubRepo{expiring: []*subscription.Subscription{
		expiringSub(t, 1, subscription.StatusTrial, 10*time.Hour),
	}}
	uc, notifs := newScan(subs, &fakeHistoryRepo{}, nil, &recordingMailer{})

	require.NoError(t, uc.Execute(context.Background()))
	require.Len(t, notifs.created, 1)
	assert.Equal(t, notification.TypeTrialExpiry10h, notifs.created[0].Kind())
}

func TestExpiryScan_InterpolatesActiveTemplate(t *testing.T) {
	tmpl := &notification.Template{
		Kind:     notification.TypeSubscriptionExpiry24h,
		Subject:  "Heads up, {{username}}",
		Message:  "{{username}}, your plan {{tariff_name}} ends in {{time_text}}, on {{expiry_date}} {{expiry_time}}",
		IsActive: true,
	}
	subs := &fakeSubRepo{expiring: []*subscription.Subscription{
		expiringSub(t, 1, subscription.StatusActive, 24*time.Hour),
	}}
	uc, notifs := newScan(subs, &fakeHistoryRepo{}, tmpl, &recordingMailer{})

	require.NoError(t, uc.Execute(context.Background()))
	require.Len(t, notifs.created, 1)
	assert.Equal(t, "Heads up, person", notifs.created[0].Title())
	assert.Equal(t, "person, your plan Premium ends in 24 hours, on 2 June 2025 12:00", notifs.created[0].Message())
	assert.NotContains(t, notifs.created[0].Message(), "{{")
}

func TestExpiryScan_MissingTariffUsesFallbackName(t *testing.T) {
	tmpl := &notification.Template{
		Kind:     notification.TypeSubscriptionExpiry24h,
		Subject:  "Reminder",
		Message:  "Plan {{tariff_name}} expires in {{time_text}}",
		IsActive: true,
	}
	subs := &fakeSubRepo{expiring: []*subscription.Subscription{
		expiringSub(t, 1, subscription.StatusActive, 24*time.Hour),
	}}
	notifs := &fakeNotifRepo{}
	uc := NewNotifyExpiringUseCase(
		subs, &fakeTariffRepo{err: subscription.ErrTariffNotFound}, fakeUserRepo{}, notifs,
		&fakeHistoryRepo{}, &fakeTemplateRepo{tmpl: tmpl}, &recordingMailer{},
		logger.NewLogger(),
	).WithClock(func() time.Time { return scanNow })

	require.NoError(t, uc.Execute(context.Background()))
	require.Len(t, notifs.created, 1)
	assert.Equal(t, "Plan VPN expires in 24 hours", notifs.created[0].Message())
}
