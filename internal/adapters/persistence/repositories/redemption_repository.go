package repositories

import (
	"context"
	"time"

	"unipass-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// redemptionRepository implements the append-only RedemptionRepository
type redemptionRepository struct {
	db *gorm.DB
}

// NewRedemptionRepository creates a new redemption repository
func NewRedemptionRepository(db *gorm.DB) RedemptionRepository {
	return &redemptionRepository{db: db}
}

// Append inserts a redemption event. Events are immutable once written.
func (r *redemptionRepository) Append(ctx context.Context, event *models.RedemptionEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListByMemberAndPartner returns the (member, partner) history in
// chronological order, id breaking timestamp ties so log order is
// preserved.
func (r *redemptionRepository) ListByMemberAndPartner(ctx context.Context, memberID, partnerID uint) ([]*models.RedemptionEvent, error) {
	var events []*models.RedemptionEvent
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND partner_id = ?", memberID, partnerID).
		Order("created_at, id").
		Find(&events).Error
	return events, err
}

// ListByPartner returns a partner's audit history, newest first, with
// optional offer/member/date-range filters
func (r *redemptionRepository) ListByPartner(ctx context.Context, partnerID uint, f RedemptionFilter, offset, limit int) ([]*models.RedemptionEvent, int64, error) {
	var events []*models.RedemptionEvent
	var total int64

	query := r.db.WithContext(ctx).Model(&models.RedemptionEvent{}).Where("partner_id = ?", partnerID)
	if f.OfferID != "" {
		query = query.Where("offer_id = ?", f.OfferID)
	}
	if f.MemberID != 0 {
		query = query.Where("member_id = ?", f.MemberID)
	}
	if f.From != nil {
		query = query.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("created_at < ?", *f.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Member").Preload("Operator").
		Offset(offset).Limit(limit).
		Order("created_at DESC, id DESC").
		Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// CountByPartnerSince counts a partner's redemptions from an instant on
func (r *redemptionRepository) CountByPartnerSince(ctx context.Context, partnerID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RedemptionEvent{}).
		Where("partner_id = ?", partnerID).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// TopOffersByPartner ranks a partner's offers by redemption count
func (r *redemptionRepository) TopOffersByPartner(ctx context.Context, partnerID uint, since time.Time, limit int) ([]OfferCount, error) {
	var rows []OfferCount
	err := r.db.WithContext(ctx).Model(&models.RedemptionEvent{}).
		Select("offer_id, COUNT(*) as count").
		Where("partner_id = ?", partnerID).
		Where("created_at >= ?", since).
		Group("offer_id").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
