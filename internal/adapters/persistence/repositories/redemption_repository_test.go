package repositories

import (
	"context"
	"testing"
	"time"

	"unipass-backend/internal/adapters/persistence/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func seedEvent(t *testing.T, repo RedemptionRepository, partnerID, memberID uint, offerID string, at time.Time) *models.RedemptionEvent {
	t.Helper()
	ev := &models.RedemptionEvent{
		PartnerID:  partnerID,
		MemberID:   memberID,
		OfferID:    offerID,
		OperatorID: 1,
		CreatedAt:  at,
	}
	require.NoError(t, repo.Append(context.Background(), ev))
	return ev
}

func TestListByMemberAndPartner_ChronologicalWithIDTieBreak(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRedemptionRepository(db)
	ctx := context.Background()

	ts := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	first := seedEvent(t, repo, 1, 1, "promo-a", ts.Add(time.Hour))
	second := seedEvent(t, repo, 1, 1, "promo-b", ts)
	// Same timestamp as the first event; lower id must come first
	third := seedEvent(t, repo, 1, 1, "promo-c", ts.Add(time.Hour))

	events, err := repo.ListByMemberAndPartner(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, second.ID, events[0].ID)
	assert.Equal(t, first.ID, events[1].ID)
	assert.Equal(t, third.ID, events[2].ID)
}

func TestListByMemberAndPartner_ScopesToPair(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRedemptionRepository(db)
	ctx := context.Background()

	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	seedEvent(t, repo, 1, 1, "promo-a", now)
	seedEvent(t, repo, 2, 1, "promo-a", now) // other partner
	seedEvent(t, repo, 1, 2, "promo-a", now) // other member

	events, err := repo.ListByMemberAndPartner(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestListByPartner_Filters(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRedemptionRepository(db)
	ctx := context.Background()

	jan := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	seedEvent(t, repo, 1, 1, "promo-a", jan)
	seedEvent(t, repo, 1, 2, "promo-b", feb)
	seedEvent(t, repo, 1, 1, "promo-b", feb.Add(time.Hour))

	byOffer, total, err := repo.ListByPartner(ctx, 1, RedemptionFilter{OfferID: "promo-b"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, byOffer, 2)

	byMember, total, err := repo.ListByPartner(ctx, 1, RedemptionFilter{MemberID: 1}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, byMember, 2)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	byRange, total, err := repo.ListByPartner(ctx, 1, RedemptionFilter{From: &from, To: &to}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, byRange, 2)

	// Newest first
	assert.True(t, !byRange[0].CreatedAt.Before(byRange[1].CreatedAt))
}

func TestCountByPartnerSince(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRedemptionRepository(db)
	ctx := context.Background()

	jan := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	seedEvent(t, repo, 1, 1, "promo-a", jan)
	seedEvent(t, repo, 1, 1, "promo-a", feb)
	seedEvent(t, repo, 1, 2, "promo-b", feb)

	count, err := repo.CountByPartnerSince(ctx, 1, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestTopOffersByPartner(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRedemptionRepository(db)
	ctx := context.Background()

	now := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedEvent(t, repo, 1, 1, "promo-a", now.Add(time.Duration(i)*time.Minute))
	}
	seedEvent(t, repo, 1, 1, "promo-b", now)

	top, err := repo.TopOffersByPartner(ctx, 1, now.AddDate(0, -1, 0), 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "promo-a", top[0].OfferID)
	assert.EqualValues(t, 3, top[0].Count)
	assert.Equal(t, "promo-b", top[1].OfferID)
}
