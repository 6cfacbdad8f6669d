package repositories

import (
	"context"
	"time"

	"unipass-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member
func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetByID gets a member by ID with school preloaded
func (r *memberRepository) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Preload("School").Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByCPF gets a member by normalized CPF
func (r *memberRepository) GetByCPF(ctx context.Context, cpf string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Preload("School").Where("cpf = ?", cpf).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByCardToken gets a member by QR card token
func (r *memberRepository) GetByCardToken(ctx context.Context, token string) (*models.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).Preload("School").Where("card_token = ?", token).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update updates a member
func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// Delete soft deletes a member
func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Member{}, id).Error
}

// ListBySchool lists a school's members with optional name/CPF search
func (r *memberRepository) ListBySchool(ctx context.Context, schoolID uint, search string, offset, limit int) ([]*models.Member, int64, error) {
	var members []*models.Member
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Member{}).Where("school_id = ?", schoolID)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR cpf LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("name").Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// ExistsByCPF checks if a CPF is already enrolled
func (r *memberRepository) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("cpf = ?", cpf).Count(&count).Error
	return count > 0, err
}

// CountBySchool counts a school's members
func (r *memberRepository) CountBySchool(ctx context.Context, schoolID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("school_id = ?", schoolID).Count(&count).Error
	return count, err
}

// ListExpiringBetween lists active members whose card expires in the window
func (r *memberRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.Member, error) {
	var members []*models.Member
	err := r.db.WithContext(ctx).Preload("School").
		Where("is_active = ?", true).
		Where("expires_at >= ? AND expires_at < ?", from, to).
		Order("expires_at").
		Find(&members).Error
	return members, err
}

// DeactivateExpired deactivates members whose card validity has lapsed
func (r *memberRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Member{}).
		Where("is_active = ?", true).
		Where("expires_at < ?", now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
