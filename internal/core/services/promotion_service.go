package services

import (
	"context"
	"errors"
	"log"
	"time"

	"unipass-backend/internal/adapters/persistence/models"
	"unipass-backend/internal/adapters/persistence/repositories"
	"unipass-backend/internal/core/eligibility"

	"gorm.io/gorm"
)

// Promotion service errors
var (
	ErrPromotionNotFound  = errors.New("promotion not found")
	ErrInvalidUsageLimit  = errors.New("usage limit must be UNLIMITED, MONTHLY or ONCE")
	ErrWrongPartner       = errors.New("promotion belongs to another partner")
	ErrPromoExpiryInPast  = errors.New("promotion expiry must be in the future")
)

// PromotionService manages a partner's promotion catalog
type PromotionService struct {
	promoRepo   *repositories.PromotionRepository
	partnerRepo *repositories.PartnerRepository
}

// NewPromotionService creates a new promotion service
func NewPromotionService(promoRepo *repositories.PromotionRepository, partnerRepo *repositories.PartnerRepository) *PromotionService {
	return &PromotionService{
		promoRepo:   promoRepo,
		partnerRepo: partnerRepo,
	}
}

// CreatePromotionInput represents promotion creation input
type CreatePromotionInput struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description,omitempty"`
	UsageLimit  string     `json:"usage_limit" validate:"required"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// UpdatePromotionInput represents promotion update input
type UpdatePromotionInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	UsageLimit  *string    `json:"usage_limit"`
	ExpiresAt   *time.Time `json:"expires_at"`
	IsActive    *bool      `json:"is_active"`
}

// Create creates a promotion for a partner
func (s *PromotionService) Create(ctx context.Context, partnerID uint, input *CreatePromotionInput) (*models.Promotion, error) {
	if _, err := s.partnerRepo.GetByID(ctx, partnerID); err != nil {
		return nil, ErrPartnerNotFound
	}

	if !eligibility.Limit(input.UsageLimit).Valid() {
		return nil, ErrInvalidUsageLimit
	}

	if input.ExpiresAt != nil && !input.ExpiresAt.After(time.Now()) {
		return nil, ErrPromoExpiryInPast
	}

	promo := &models.Promotion{
		PartnerID:   partnerID,
		Title:       input.Title,
		Description: input.Description,
		UsageLimit:  input.UsageLimit,
		ExpiresAt:   input.ExpiresAt,
		IsActive:    true,
	}

	if err := s.promoRepo.Create(ctx, promo); err != nil {
		return nil, err
	}

	log.Printf("✅ Promotion created: %s (partner %d)", promo.Title, partnerID)
	return promo, nil
}

// GetByID gets a promotion, checking partner ownership when partnerID != 0
func (s *PromotionService) GetByID(ctx context.Context, id uint, partnerID uint) (*models.Promotion, error) {
	promo, err := s.promoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, err
	}
	if partnerID != 0 && promo.PartnerID != partnerID {
		return nil, ErrWrongPartner
	}
	return promo, nil
}

// ListByPartner lists all of a partner's promotions including inactive
func (s *PromotionService) ListByPartner(ctx context.Context, partnerID uint) ([]*models.Promotion, error) {
	return s.promoRepo.ListByPartner(ctx, partnerID)
}

// Update updates a promotion within the caller's partner scope
func (s *PromotionService) Update(ctx context.Context, id uint, partnerID uint, input *UpdatePromotionInput) (*models.Promotion, error) {
	promo, err := s.GetByID(ctx, id, partnerID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		promo.Title = *input.Title
	}
	if input.Description != nil {
		promo.Description = *input.Description
	}
	if input.UsageLimit != nil {
		if !eligibility.Limit(*input.UsageLimit).Valid() {
			return nil, ErrInvalidUsageLimit
		}
		promo.UsageLimit = *input.UsageLimit
	}
	if input.ExpiresAt != nil {
		promo.ExpiresAt = input.ExpiresAt
	}
	if input.IsActive != nil {
		promo.IsActive = *input.IsActive
	}

	if err := s.promoRepo.Update(ctx, promo); err != nil {
		return nil, err
	}

	return promo, nil
}

// Delete soft deletes a promotion. Past redemption events keep their
// offer id, so history stays readable after the promotion is gone.
func (s *PromotionService) Delete(ctx context.Context, id uint, partnerID uint) error {
	if _, err := s.GetByID(ctx, id, partnerID); err != nil {
		return err
	}
	return s.promoRepo.Delete(ctx, id)
}
