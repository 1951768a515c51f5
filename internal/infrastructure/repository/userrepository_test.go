package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"noryx/internal/domain/mailing"
	"noryx/internal/domain/user"
	"noryx/internal/infrastructure/persistence/models"
)

func seedSegmentFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()
	now := time.Now().UTC()

	users := []models.UserModel{
		{ID: 1, Email: "active@example.com", LastSeenAt: now},
		{ID: 2, Email: "lapsed@example.com", TrialUsed: true, LastSeenAt: now.Add(-60 * 24 * time.Hour)},
		{ID: 3, Email: "fresh@example.com", LastSeenAt: now},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	// User 1 holds a usable subscription; user 2's is long expired.
	require.NoError(t, db.Create(&models.SubscriptionModel{
		UserID: 1, Status: "active",
		StartsAt: now.Add(-time.Hour), ExpiresAt: now.Add(24 * time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.SubscriptionModel{
		UserID: 2, Status: "expired",
		StartsAt: now.Add(-60 * 24 * time.Hour), ExpiresAt: now.Add(-30 * 24 * time.Hour),
	}).Error)
}

func emails(users []*user.User) []string {
	result := make([]string, 0, len(users))
	for _, u := range users {
		result = append(result, u.Email())
	}
	return result
}

func TestUserRepository_ListBySegment(t *testing.T) {
	db := testDB(t)
	seedSegmentFixtures(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		segment mailing.Segment
		want    []string
	}{
		{mailing.SegmentAll, []string{"active@example.com", "lapsed@example.com", "fresh@example.com"}},
		{mailing.SegmentWithSubscription, []string{"active@example.com"}},
		{mailing.SegmentWithoutSubscription, []string{"lapsed@example.com", "fresh@example.com"}},
		{mailing.SegmentTrial, []string{"lapsed@example.com"}},
		{mailing.SegmentInactive, []string{"lapsed@example.com"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.segment), func(t *testing.T) {
			users, err := repo.ListBySegment(ctx, tt.segment)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, emails(users))
		})
	}
}

func TestUserRepository_ListBySegmentRejectsUnknown(t *testing.T) {
	repo := NewUserRepository(testDB(t))

	_, err := repo.ListBySegment(context.Background(), mailing.Segment("vip"))
	assert.Error(t, err)
}

func TestUserRepository_GetByID(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Create(&models.UserModel{ID: 1, Email: "a@example.com", Username: "a"}).Error)
	repo := NewUserRepository(db)

	found, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", found.Email())

	_, err = repo.GetByID(context.Background(), 99)
	assert.Error(t, err)
}
