package services

import (
	"context"
	"time"

	"unipass-backend/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	db             *gorm.DB
	redemptionRepo repositories.RedemptionRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, redemptionRepo repositories.RedemptionRepository) *DashboardService {
	return &DashboardService{db: db, redemptionRepo: redemptionRepo}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	TotalSchools    int64 `json:"total_schools"`
	TotalPartners   int64 `json:"total_partners"`
	TotalMembers    int64 `json:"total_members"`
	ActiveMembers   int64 `json:"active_members"`
	TotalPromotions int64 `json:"total_promotions"`

	RedemptionsToday     int64 `json:"redemptions_today"`
	RedemptionsThisMonth int64 `json:"redemptions_this_month"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	s.db.WithContext(ctx).Table("schools").Where("deleted_at IS NULL").Count(&data.TotalSchools)
	s.db.WithContext(ctx).Table("partners").Where("deleted_at IS NULL").Count(&data.TotalPartners)
	s.db.WithContext(ctx).Table("members").Where("deleted_at IS NULL").Count(&data.TotalMembers)
	s.db.WithContext(ctx).Table("members").Where("is_active = ? AND deleted_at IS NULL", true).Count(&data.ActiveMembers)
	s.db.WithContext(ctx).Table("promotions").Where("deleted_at IS NULL").Count(&data.TotalPromotions)

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	s.db.WithContext(ctx).Table("redemption_events").Where("created_at >= ?", startOfDay).Count(&data.RedemptionsToday)
	s.db.WithContext(ctx).Table("redemption_events").Where("created_at >= ?", startOfMonth).Count(&data.RedemptionsThisMonth)

	return data, nil
}

// ============================================================
// School Dashboard
// ============================================================

// SchoolDashboardData represents school dashboard data
type SchoolDashboardData struct {
	TotalMembers     int64 `json:"total_members"`
	ActiveMembers    int64 `json:"active_members"`
	Students         int64 `json:"students"`
	Dependents       int64 `json:"dependents"`
	ExpiringIn30Days int64 `json:"expiring_in_30_days"`
}

// GetSchoolDashboard returns the calling school's dashboard data
func (s *DashboardService) GetSchoolDashboard(ctx context.Context, schoolID uint) (*SchoolDashboardData, error) {
	data := &SchoolDashboardData{}

	base := "school_id = ? AND deleted_at IS NULL"
	s.db.WithContext(ctx).Table("members").Where(base, schoolID).Count(&data.TotalMembers)
	s.db.WithContext(ctx).Table("members").Where(base+" AND is_active = ?", schoolID, true).Count(&data.ActiveMembers)
	s.db.WithContext(ctx).Table("members").Where(base+" AND category = ?", schoolID, "STUDENT").Count(&data.Students)
	s.db.WithContext(ctx).Table("members").Where(base+" AND category = ?", schoolID, "DEPENDENT").Count(&data.Dependents)

	now := time.Now()
	s.db.WithContext(ctx).Table("members").
		Where(base+" AND is_active = ? AND expires_at BETWEEN ? AND ?", schoolID, true, now, now.AddDate(0, 0, 30)).
		Count(&data.ExpiringIn30Days)

	return data, nil
}

// ============================================================
// Partner Dashboard
// ============================================================

// PartnerDashboardData represents partner dashboard data
type PartnerDashboardData struct {
	RedemptionsToday     int64                     `json:"redemptions_today"`
	RedemptionsThisMonth int64                     `json:"redemptions_this_month"`
	ActivePromotions     int64                     `json:"active_promotions"`
	TopOffers            []repositories.OfferCount `json:"top_offers"`
}

// GetPartnerDashboard returns the calling partner's dashboard data
func (s *DashboardService) GetPartnerDashboard(ctx context.Context, partnerID uint) (*PartnerDashboardData, error) {
	data := &PartnerDashboardData{}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var err error
	if data.RedemptionsToday, err = s.redemptionRepo.CountByPartnerSince(ctx, partnerID, startOfDay); err != nil {
		return nil, err
	}
	if data.RedemptionsThisMonth, err = s.redemptionRepo.CountByPartnerSince(ctx, partnerID, startOfMonth); err != nil {
		return nil, err
	}

	s.db.WithContext(ctx).Table("promotions").
		Where("partner_id = ? AND is_active = ? AND deleted_at IS NULL", partnerID, true).
		Count(&data.ActivePromotions)

	top, err := s.redemptionRepo.TopOffersByPartner(ctx, partnerID, startOfMonth, 5)
	if err != nil {
		return nil, err
	}
	data.TopOffers = top

	return data, nil
}
