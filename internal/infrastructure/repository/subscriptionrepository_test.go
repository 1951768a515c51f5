package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"noryx/internal/domain/subscription"
	"noryx/internal/infrastructure/persistence/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.SubscriptionModel{},
	))
	return db
}

func newActiveSub(t *testing.T, userID uint, expiresAt time.Time) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.NewSubscription(userID, 1, subscription.StatusActive,
		expiresAt.Add(-30*24*time.Hour), expiresAt)
	require.NoError(t, err)
	return sub
}

func TestSubscriptionRepository_CreateAndGet(t *testing.T) {
	repo := NewSubscriptionRepository(testDB(t))
	ctx := context.Background()
	expires := time.Now().UTC().Add(24 * time.Hour)

	sub := newActiveSub(t, 42, expires)
	require.NoError(t, repo.Create(ctx, sub))
	require.NotZero(t, sub.ID())

	loaded, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, uint(42), loaded.UserID())
	assert.Equal(t, subscription.StatusActive, loaded.Status())
	assert.False(t, loaded.IsProvisioned())

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, subscription.ErrNotFound)
}

func TestSubscriptionRepository_FindUsableByUserID(t *testing.T) {
	repo := NewSubscriptionRepository(testDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	older := newActiveSub(t, 42, now.Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, older))
	newer := newActiveSub(t, 42, now.Add(72*time.Hour))
	require.NoError(t, repo.Create(ctx, newer))

	found, err := repo.FindUsableByUserID(ctx, 42, now)
	require.NoError(t, err)
	assert.Equal(t, newer.ID(), found.ID(), "newest expiry wins")

	_, err = repo.FindUsableByUserID(ctx, 7, now)
	assert.ErrorIs(t, err, subscription.ErrNotFound)
}

func TestSubscriptionRepository_FindUsableSkipsExpiredAndTerminal(t *testing.T) {
	repo := NewSubscriptionRepository(testDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	past := newActiveSub(t, 42, now.Add(time.Minute))
	require.NoError(t, repo.Create(ctx, past))

	_, err := repo.FindUsableByUserID(ctx, 42, now.Add(time.Hour))
	assert.ErrorIs(t, err, subscription.ErrNotFound, "expiry in the past")

	require.NoError(t, repo.UpdateStatus(ctx, past.ID(), subscription.StatusCancelled))
	_, err = repo.FindUsableByUserID(ctx, 42, now)
	assert.ErrorIs(t, err, subscription.ErrNotFound, "cancelled status")
}

func TestSubscriptionRepository_ProviderIdentityRoundTrip(t *testing.T) {
	repo := NewSubscriptionRepository(testDB(t))
	ctx := context.Background()

	sub := newActiveSub(t, 42, time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, sub))

	identity := &subscription.ProviderIdentity{
		ClientID:    "3fa2b9d4",
		ClientEmail: "user_42_1700000000000@noryx.vpn",
		InboundID:   7,
	}
	require.NoError(t, repo.UpdateProviderIdentity(ctx, sub.ID(), identity))

	loaded, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	require.True(t, loaded.IsProvisioned())
	assert.Equal(t, *identity, *loaded.Provider())

	// Clearing writes all three columns back to NULL.
	require.NoError(t, repo.UpdateProviderIdentity(ctx, sub.ID(), nil))
	loaded, err = repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.False(t, loaded.IsProvisioned())

	assert.ErrorIs(t, repo.UpdateProviderIdentity(ctx, 999, identity), subscription.ErrNotFound)
}

func TestSubscriptionRepository_ListTerminalProvisioned(t *testing.T) {
	repo := NewSubscriptionRepository(testDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	identity := &subscription.ProviderIdentity{ClientID: "a", ClientEmail: "e1", InboundID: 1}

	// Past expiry, still provisioned: should be listed.
	stale := newActiveSub(t, 1, now.Add(time.Minute))
	require.NoError(t, repo.Create(ctx, stale))
	require.NoError(t, repo.UpdateProviderIdentity(ctx, stale.ID(), identity))

	// Active and provisioned: not listed.
	live := newActiveSub(t, 2, now.Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.UpdateProviderIdentity(ctx, live.ID(),
		&subscription.ProviderIdentity{ClientID: "b", ClientEmail: "e2", InboundID: 1}))

	// Expired but never provisioned: not listed.
	bare := newActiveSub(t, 3, now.Add(time.Minute))
	require.NoError(t, repo.Create(ctx, bare))

	listed, err := repo.ListTerminalProvisioned(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, stale.ID(), listed[0].ID())
}

func TestSubscriptionRepository_UpdateCountry(t *testing.T) {
	repo := NewSubscriptionRepository(testDB(t))
	ctx := context.Background()

	sub := newActiveSub(t, 42, time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, repo.Create(ctx, sub))

	require.NoError(t, repo.UpdateCountry(ctx, sub.ID(), "nl"))
	loaded, err := repo.GetByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, "nl", loaded.CountryCode())
}
