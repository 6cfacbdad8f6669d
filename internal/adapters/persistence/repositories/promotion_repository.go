package repositories

import (
	"context"
	"time"

	"unipass-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PromotionRepository handles promotion data access
type PromotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository creates a new promotion repository
func NewPromotionRepository(db *gorm.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// Create creates a new promotion
func (r *PromotionRepository) Create(ctx context.Context, promo *models.Promotion) error {
	return r.db.WithContext(ctx).Create(promo).Error
}

// GetByID gets a promotion by ID
func (r *PromotionRepository) GetByID(ctx context.Context, id uint) (*models.Promotion, error) {
	var promo models.Promotion
	err := r.db.WithContext(ctx).First(&promo, id).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// Update updates a promotion
func (r *PromotionRepository) Update(ctx context.Context, promo *models.Promotion) error {
	return r.db.WithContext(ctx).Save(promo).Error
}

// Delete soft deletes a promotion
func (r *PromotionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Promotion{}, id).Error
}

// ListByPartner lists all of a partner's promotions including inactive
func (r *PromotionRepository) ListByPartner(ctx context.Context, partnerID uint) ([]*models.Promotion, error) {
	var promos []*models.Promotion
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at").
		Find(&promos).Error
	return promos, err
}

// ListActiveByPartner lists promotions eligible for evaluation:
// active and not past their expiry at the given instant. This is the
// catalog filter the eligibility engine trusts its callers to apply.
func (r *PromotionRepository) ListActiveByPartner(ctx context.Context, partnerID uint, now time.Time) ([]*models.Promotion, error) {
	var promos []*models.Promotion
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Where("is_active = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("created_at").
		Find(&promos).Error
	return promos, err
}

// DeactivateExpired deactivates promotions past their expiry (cron job)
func (r *PromotionRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Promotion{}).
		Where("is_active = ?", true).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
