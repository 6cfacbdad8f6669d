package services

import (
	"context"
	"errors"

	"unipass-backend/internal/adapters/persistence/models"
	"unipass-backend/internal/adapters/persistence/repositories"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// School service errors
var (
	ErrSchoolNotFound      = errors.New("school not found")
	ErrSchoolAlreadyExists = errors.New("school already exists")
)

// SchoolService handles school management business logic
type SchoolService struct {
	schoolRepo *repositories.SchoolRepository
	memberRepo repositories.MemberRepository
}

// NewSchoolService creates a new school service
func NewSchoolService(schoolRepo *repositories.SchoolRepository, memberRepo repositories.MemberRepository) *SchoolService {
	return &SchoolService{
		schoolRepo: schoolRepo,
		memberRepo: memberRepo,
	}
}

// CreateSchoolInput represents create school input
type CreateSchoolInput struct {
	Name string `json:"name" validate:"required"`
	City string `json:"city,omitempty"`
}

// UpdateSchoolInput represents update school input
type UpdateSchoolInput struct {
	Name     *string `json:"name"`
	City     *string `json:"city"`
	IsActive *bool   `json:"is_active"`
}

// Create creates a new school with a URL slug derived from its name
func (s *SchoolService) Create(ctx context.Context, input *CreateSchoolInput) (*models.School, error) {
	schoolSlug := slug.Make(input.Name)

	exists, err := s.schoolRepo.ExistsBySlug(ctx, schoolSlug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSchoolAlreadyExists
	}

	school := &models.School{
		Name:     input.Name,
		Slug:     schoolSlug,
		City:     input.City,
		IsActive: true,
	}

	if err := s.schoolRepo.Create(ctx, school); err != nil {
		return nil, err
	}

	return school, nil
}

// GetByID gets a school by ID
func (s *SchoolService) GetByID(ctx context.Context, id uint) (*models.School, error) {
	school, err := s.schoolRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, err
	}
	return school, nil
}

// List lists schools with search and pagination
func (s *SchoolService) List(ctx context.Context, search string, offset, limit int) ([]*models.School, int64, error) {
	return s.schoolRepo.List(ctx, search, offset, limit)
}

// Update updates a school
func (s *SchoolService) Update(ctx context.Context, id uint, input *UpdateSchoolInput) (*models.School, error) {
	school, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != school.Name {
		newSlug := slug.Make(*input.Name)
		if newSlug != school.Slug {
			exists, err := s.schoolRepo.ExistsBySlug(ctx, newSlug)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrSchoolAlreadyExists
			}
			school.Slug = newSlug
		}
		school.Name = *input.Name
	}
	if input.City != nil {
		school.City = *input.City
	}
	if input.IsActive != nil {
		school.IsActive = *input.IsActive
	}

	if err := s.schoolRepo.Update(ctx, school); err != nil {
		return nil, err
	}

	return school, nil
}

// Delete soft deletes a school
func (s *SchoolService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.schoolRepo.Delete(ctx, id)
}

// MemberCount counts a school's enrolled members
func (s *SchoolService) MemberCount(ctx context.Context, schoolID uint) (int64, error) {
	return s.memberRepo.CountBySchool(ctx, schoolID)
}
