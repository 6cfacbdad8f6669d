package repositories

import (
	"context"

	"unipass-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PartnerRepository handles partner data access
type PartnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates a new partner repository
func NewPartnerRepository(db *gorm.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// Create creates a new partner
func (r *PartnerRepository) Create(ctx context.Context, partner *models.Partner) error {
	return r.db.WithContext(ctx).Create(partner).Error
}

// GetByID gets a partner by ID
func (r *PartnerRepository) GetByID(ctx context.Context, id uint) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.WithContext(ctx).First(&partner, id).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

// GetBySlug gets a partner by slug
func (r *PartnerRepository) GetBySlug(ctx context.Context, slug string) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&partner).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

// Update updates a partner
func (r *PartnerRepository) Update(ctx context.Context, partner *models.Partner) error {
	return r.db.WithContext(ctx).Save(partner).Error
}

// Delete soft deletes a partner
func (r *PartnerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Partner{}, id).Error
}

// List lists partners with optional name search and pagination
func (r *PartnerRepository) List(ctx context.Context, search string, offset, limit int) ([]*models.Partner, int64, error) {
	var partners []*models.Partner
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Partner{})
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("name").Find(&partners).Error; err != nil {
		return nil, 0, err
	}

	return partners, total, nil
}

// ExistsBySlug checks if a slug is taken
func (r *PartnerRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Partner{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
