package services

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"unipass-backend/internal/adapters/persistence/models"
	"unipass-backend/internal/adapters/persistence/repositories"
	"unipass-backend/internal/core/domain"
	"unipass-backend/internal/core/eligibility"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

type validationFixture struct {
	svc     *ValidationService
	db      *gorm.DB
	school  *models.School
	partner *models.Partner
	member  *models.Member
	once    *models.Promotion
	monthly *models.Promotion
}

func newValidationFixture(t *testing.T) *validationFixture {
	t.Helper()
	db := setupTestDB(t)

	school := &models.School{Name: "Colégio Horizonte", Slug: "colegio-horizonte", IsActive: true}
	require.NoError(t, db.Create(school).Error)

	partner := &models.Partner{
		Name:            "Cine Avenida",
		Slug:            "cine-avenida",
		StandardBenefit: "10% off any session",
		IsActive:        true,
	}
	require.NoError(t, db.Create(partner).Error)

	member := &models.Member{
		SchoolID:  school.ID,
		Name:      "Ana Souza",
		CPF:       "52998224725",
		Category:  models.CategoryStudent,
		CardToken: "7f9c71ee-0f6e-4f5a-9a41-2b1f35e0c111",
		ExpiresAt: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	require.NoError(t, db.Create(member).Error)

	once := &models.Promotion{
		PartnerID:  partner.ID,
		Title:      "Free popcorn",
		UsageLimit: models.LimitOnce,
		IsActive:   true,
	}
	require.NoError(t, db.Create(once).Error)

	monthly := &models.Promotion{
		PartnerID:  partner.ID,
		Title:      "2x1 Tuesday",
		UsageLimit: models.LimitMonthly,
		IsActive:   true,
	}
	require.NoError(t, db.Create(monthly).Error)

	svc := NewValidationService(
		repositories.NewMemberRepository(db),
		repositories.NewPartnerRepository(db),
		repositories.NewPromotionRepository(db),
		repositories.NewRedemptionRepository(db),
		nil,
	)
	svc.SetNowFunc(func() time.Time {
		return time.Date(2024, 1, 25, 12, 0, 0, 0, time.UTC)
	})

	return &validationFixture{
		svc:     svc,
		db:      db,
		school:  school,
		partner: partner,
		member:  member,
		once:    once,
		monthly: monthly,
	}
}

func (f *validationFixture) offerID(p *models.Promotion) string {
	return strconv.FormatUint(uint64(p.ID), 10)
}

func TestResolveByCardToken_FreshMember(t *testing.T) {
	f := newValidationFixture(t)

	result, err := f.svc.ResolveByCardToken(context.Background(), f.partner.ID, f.member.CardToken)
	require.NoError(t, err)

	assert.Equal(t, f.member.Name, result.Member.Name)
	require.Len(t, result.Offers, 3)

	// Standard benefit leads the catalog
	assert.Equal(t, eligibility.StandardBenefitID, result.Offers[0].OfferID)
	for _, status := range result.Offers {
		assert.True(t, status.Available, "offer %s", status.OfferID)
		assert.Equal(t, 0, status.UsageCount)
	}
}

func TestResolveByCardToken_UnknownToken(t *testing.T) {
	f := newValidationFixture(t)

	_, err := f.svc.ResolveByCardToken(context.Background(), f.partner.ID, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestResolveByCPF(t *testing.T) {
	f := newValidationFixture(t)

	result, err := f.svc.ResolveByCPF(context.Background(), f.partner.ID, "529.982.247-25")
	require.NoError(t, err)
	assert.Equal(t, f.member.Name, result.Member.Name)
}

func TestResolveByCPF_InvalidCPF(t *testing.T) {
	f := newValidationFixture(t)

	_, err := f.svc.ResolveByCPF(context.Background(), f.partner.ID, "111.111.111-11")
	assert.ErrorIs(t, err, domain.ErrInvalidCPF)
}

func TestResolve_InactiveCard(t *testing.T) {
	f := newValidationFixture(t)
	require.NoError(t, f.db.Model(f.member).Update("is_active", false).Error)

	_, err := f.svc.ResolveByCardToken(context.Background(), f.partner.ID, f.member.CardToken)
	assert.ErrorIs(t, err, domain.ErrCardInactive)
}

func TestResolve_ExpiredCard(t *testing.T) {
	f := newValidationFixture(t)
	f.svc.SetNowFunc(func() time.Time {
		return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	})

	_, err := f.svc.ResolveByCardToken(context.Background(), f.partner.ID, f.member.CardToken)
	assert.ErrorIs(t, err, domain.ErrCardExpired)
}

func TestResolve_InactivePromotionExcluded(t *testing.T) {
	f := newValidationFixture(t)
	require.NoError(t, f.db.Model(f.once).Update("is_active", false).Error)

	result, err := f.svc.ResolveByCardToken(context.Background(), f.partner.ID, f.member.CardToken)
	require.NoError(t, err)

	require.Len(t, result.Offers, 2)
	for _, status := range result.Offers {
		assert.NotEqual(t, f.offerID(f.once), status.OfferID)
	}
}

func TestResolve_NoStandardBenefit(t *testing.T) {
	f := newValidationFixture(t)
	require.NoError(t, f.db.Model(f.partner).Update("standard_benefit", "").Error)

	result, err := f.svc.ResolveByCardToken(context.Background(), f.partner.ID, f.member.CardToken)
	require.NoError(t, err)

	require.Len(t, result.Offers, 2)
	assert.NotEqual(t, eligibility.StandardBenefitID, result.Offers[0].OfferID)
}

func TestConfirmRedemption_OncePromotion(t *testing.T) {
	f := newValidationFixture(t)
	offerID := f.offerID(f.once)

	result, err := f.svc.ConfirmRedemption(context.Background(), f.partner.ID, f.member.ID, offerID, 1)
	require.NoError(t, err)
	assert.Equal(t, offerID, result.Event.OfferID)

	// Refreshed statuses show it blocked
	for _, status := range result.Offers {
		if status.OfferID == offerID {
			assert.False(t, status.Available)
			assert.Equal(t, eligibility.ReasonAlreadyUsed, status.Reason)
			assert.Equal(t, 1, status.UsageCount)
		}
	}

	// Second confirmation is rejected with the engine's verdict
	_, err = f.svc.ConfirmRedemption(context.Background(), f.partner.ID, f.member.ID, offerID, 1)
	var blocked *BlockedOfferError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, eligibility.ReasonAlreadyUsed, blocked.Status.Reason)
	assert.ErrorIs(t, err, domain.ErrOfferNotAvailable)

	// Only one event landed in the log
	var count int64
	f.db.Model(&models.RedemptionEvent{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestConfirmRedemption_MonthlyResetsNextMonth(t *testing.T) {
	f := newValidationFixture(t)
	offerID := f.offerID(f.monthly)

	_, err := f.svc.ConfirmRedemption(context.Background(), f.partner.ID, f.member.ID, offerID, 1)
	require.NoError(t, err)

	// Same calendar month: blocked
	_, err = f.svc.ConfirmRedemption(context.Background(), f.partner.ID, f.member.ID, offerID, 1)
	var blocked *BlockedOfferError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, eligibility.ReasonUsedThisMonth, blocked.Status.Reason)

	// Next calendar month: available again. The stored event keeps its
	// January timestamp; only the clock moves.
	f.svc.SetNowFunc(func() time.Time {
		return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	})
	result, err := f.svc.ConfirmRedemption(context.Background(), f.partner.ID, f.member.ID, offerID, 1)
	require.NoError(t, err)

	for _, status := range result.Offers {
		if status.OfferID == offerID {
			assert.Equal(t, 2, status.UsageCount)
		}
	}
}

func TestConfirmRedemption_StandardBenefitUnlimited(t *testing.T) {
	f := newValidationFixture(t)

	for i := 0; i < 3; i++ {
		result, err := f.svc.ConfirmRedemption(context.Background(), f.partner.ID, f.member.ID, eligibility.StandardBenefitID, 1)
		require.NoError(t, err)

		for _, status := range result.Offers {
			if status.OfferID == eligibility.StandardBenefitID {
				assert.True(t, status.Available)
				assert.Equal(t, i+1, status.UsageCount)
			}
		}
	}
}

func TestConfirmRedemption_UnknownOffer(t *testing.T) {
	f := newValidationFixture(t)

	_, err := f.svc.ConfirmRedemption(context.Background(), f.partner.ID, f.member.ID, "9999", 1)
	assert.ErrorIs(t, err, domain.ErrOfferNotFound)
}

func TestConfirmRedemption_OtherPartnerHistoryIgnored(t *testing.T) {
	f := newValidationFixture(t)

	other := &models.Partner{Name: "Livraria Central", Slug: "livraria-central", StandardBenefit: "5% off", IsActive: true}
	require.NoError(t, f.db.Create(other).Error)

	// Redeem the once-promotion with the first partner
	_, err := f.svc.ConfirmRedemption(context.Background(), f.partner.ID, f.member.ID, f.offerID(f.once), 1)
	require.NoError(t, err)

	// The other partner's catalog is untouched by it
	result, err := f.svc.ResolveByCardToken(context.Background(), other.ID, f.member.CardToken)
	require.NoError(t, err)
	for _, status := range result.Offers {
		assert.True(t, status.Available)
		assert.Equal(t, 0, status.UsageCount)
	}
}

func TestHistory_FiltersByOffer(t *testing.T) {
	f := newValidationFixture(t)
	ctx := context.Background()

	_, err := f.svc.ConfirmRedemption(ctx, f.partner.ID, f.member.ID, eligibility.StandardBenefitID, 1)
	require.NoError(t, err)
	_, err = f.svc.ConfirmRedemption(ctx, f.partner.ID, f.member.ID, f.offerID(f.once), 1)
	require.NoError(t, err)

	all, total, err := f.svc.History(ctx, f.partner.ID, repositories.RedemptionFilter{}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	filtered, total, err := f.svc.History(ctx, f.partner.ID, repositories.RedemptionFilter{
		OfferID: eligibility.StandardBenefitID,
	}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, filtered, 1)
	assert.Equal(t, eligibility.StandardBenefitID, filtered[0].OfferID)
}

func TestBlockedRedemption_LeavesLogUntouched(t *testing.T) {
	f := newValidationFixture(t)
	ctx := context.Background()
	offerID := f.offerID(f.once)

	_, err := f.svc.ConfirmRedemption(ctx, f.partner.ID, f.member.ID, offerID, 1)
	require.NoError(t, err)

	before, _, err := f.svc.History(ctx, f.partner.ID, repositories.RedemptionFilter{}, 0, 20)
	require.NoError(t, err)

	_, err = f.svc.ConfirmRedemption(ctx, f.partner.ID, f.member.ID, offerID, 1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrMemberNotFound))

	after, _, err := f.svc.History(ctx, f.partner.ID, repositories.RedemptionFilter{}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}
