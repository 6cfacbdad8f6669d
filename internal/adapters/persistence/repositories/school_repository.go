package repositories

import (
	"context"

	"unipass-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SchoolRepository handles school data access
type SchoolRepository struct {
	db *gorm.DB
}

// NewSchoolRepository creates a new school repository
func NewSchoolRepository(db *gorm.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// Create creates a new school
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	return r.db.WithContext(ctx).Create(school).Error
}

// GetByID gets a school by ID
func (r *SchoolRepository) GetByID(ctx context.Context, id uint) (*models.School, error) {
	var school models.School
	err := r.db.WithContext(ctx).First(&school, id).Error
	if err != nil {
		return nil, err
	}
	return &school, nil
}

// GetBySlug gets a school by slug
func (r *SchoolRepository) GetBySlug(ctx context.Context, slug string) (*models.School, error) {
	var school models.School
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&school).Error
	if err != nil {
		return nil, err
	}
	return &school, nil
}

// Update updates a school
func (r *SchoolRepository) Update(ctx context.Context, school *models.School) error {
	return r.db.WithContext(ctx).Save(school).Error
}

// Delete soft deletes a school
func (r *SchoolRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.School{}, id).Error
}

// List lists schools with optional name search and pagination
func (r *SchoolRepository) List(ctx context.Context, search string, offset, limit int) ([]*models.School, int64, error) {
	var schools []*models.School
	var total int64

	query := r.db.WithContext(ctx).Model(&models.School{})
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("name").Find(&schools).Error; err != nil {
		return nil, 0, err
	}

	return schools, total, nil
}

// ExistsBySlug checks if a slug is taken
func (r *SchoolRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.School{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
