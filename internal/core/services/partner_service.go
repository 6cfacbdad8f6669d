package services

import (
	"context"
	"errors"

	"unipass-backend/internal/adapters/persistence/models"
	"unipass-backend/internal/adapters/persistence/repositories"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Partner service errors
var (
	ErrPartnerNotFound      = errors.New("partner not found")
	ErrPartnerAlreadyExists = errors.New("partner already exists")
)

// PartnerService handles partner management business logic
type PartnerService struct {
	partnerRepo *repositories.PartnerRepository
}

// NewPartnerService creates a new partner service
func NewPartnerService(partnerRepo *repositories.PartnerRepository) *PartnerService {
	return &PartnerService{partnerRepo: partnerRepo}
}

// CreatePartnerInput represents create partner input
type CreatePartnerInput struct {
	Name            string `json:"name" validate:"required"`
	CNPJ            string `json:"cnpj,omitempty"`
	StandardBenefit string `json:"standard_benefit,omitempty"`
}

// UpdatePartnerInput represents update partner input
type UpdatePartnerInput struct {
	Name            *string `json:"name"`
	CNPJ            *string `json:"cnpj"`
	StandardBenefit *string `json:"standard_benefit"`
	IsActive        *bool   `json:"is_active"`
}

// Create creates a new partner with a URL slug derived from its name
func (s *PartnerService) Create(ctx context.Context, input *CreatePartnerInput) (*models.Partner, error) {
	partnerSlug := slug.Make(input.Name)

	exists, err := s.partnerRepo.ExistsBySlug(ctx, partnerSlug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPartnerAlreadyExists
	}

	partner := &models.Partner{
		Name:            input.Name,
		Slug:            partnerSlug,
		CNPJ:            input.CNPJ,
		StandardBenefit: input.StandardBenefit,
		IsActive:        true,
	}

	if err := s.partnerRepo.Create(ctx, partner); err != nil {
		return nil, err
	}

	return partner, nil
}

// GetByID gets a partner by ID
func (s *PartnerService) GetByID(ctx context.Context, id uint) (*models.Partner, error) {
	partner, err := s.partnerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}
	return partner, nil
}

// List lists partners with search and pagination
func (s *PartnerService) List(ctx context.Context, search string, offset, limit int) ([]*models.Partner, int64, error) {
	return s.partnerRepo.List(ctx, search, offset, limit)
}

// Update updates a partner
func (s *PartnerService) Update(ctx context.Context, id uint, input *UpdatePartnerInput) (*models.Partner, error) {
	partner, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != partner.Name {
		newSlug := slug.Make(*input.Name)
		if newSlug != partner.Slug {
			exists, err := s.partnerRepo.ExistsBySlug(ctx, newSlug)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrPartnerAlreadyExists
			}
			partner.Slug = newSlug
		}
		partner.Name = *input.Name
	}
	if input.CNPJ != nil {
		partner.CNPJ = *input.CNPJ
	}
	if input.StandardBenefit != nil {
		partner.StandardBenefit = *input.StandardBenefit
	}
	if input.IsActive != nil {
		partner.IsActive = *input.IsActive
	}

	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		return nil, err
	}

	return partner, nil
}

// UpdateStandardBenefit lets a partner account edit its own standard
// benefit text. Empty text removes the standard benefit entirely.
func (s *PartnerService) UpdateStandardBenefit(ctx context.Context, partnerID uint, text string) (*models.Partner, error) {
	partner, err := s.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	partner.StandardBenefit = text
	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		return nil, err
	}

	return partner, nil
}

// Delete soft deletes a partner
func (s *PartnerService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.partnerRepo.Delete(ctx, id)
}
