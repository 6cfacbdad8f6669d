package services

import (
	"context"
	"errors"
	"log"
	"time"

	"unipass-backend/internal/adapters/persistence/models"
	"unipass-backend/internal/adapters/persistence/repositories"
	"unipass-backend/internal/pkg/cpf"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member service errors
var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrCPFAlreadyUsed   = errors.New("cpf already enrolled")
	ErrCPFInvalid       = errors.New("invalid cpf")
	ErrCategoryInvalid  = errors.New("invalid member category")
	ErrWrongSchool      = errors.New("member belongs to another school")
	ErrExpiryInThePast  = errors.New("card expiry must be in the future")
)

// MemberService handles enrollment of students and dependents
type MemberService struct {
	memberRepo repositories.MemberRepository
	schoolRepo *repositories.SchoolRepository
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repositories.MemberRepository, schoolRepo *repositories.SchoolRepository) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		schoolRepo: schoolRepo,
	}
}

// EnrollMemberInput represents enrollment input
type EnrollMemberInput struct {
	Name      string    `json:"name" validate:"required"`
	CPF       string    `json:"cpf" validate:"required"`
	Category  string    `json:"category"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	ExpiresAt time.Time `json:"expires_at" validate:"required"`
}

// UpdateMemberInput represents update input
type UpdateMemberInput struct {
	Name      *string    `json:"name"`
	Category  *string    `json:"category"`
	PhotoURL  *string    `json:"photo_url"`
	ExpiresAt *time.Time `json:"expires_at"`
	IsActive  *bool      `json:"is_active"`
}

// Enroll enrolls a student or dependent and issues their card token
func (s *MemberService) Enroll(ctx context.Context, schoolID uint, input *EnrollMemberInput) (*models.Member, error) {
	if _, err := s.schoolRepo.GetByID(ctx, schoolID); err != nil {
		return nil, ErrSchoolNotFound
	}

	if !cpf.IsValid(input.CPF) {
		return nil, ErrCPFInvalid
	}
	normalized := cpf.Normalize(input.CPF)

	exists, err := s.memberRepo.ExistsByCPF(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCPFAlreadyUsed
	}

	category := input.Category
	if category == "" {
		category = models.CategoryStudent
	}
	if category != models.CategoryStudent && category != models.CategoryDependent {
		return nil, ErrCategoryInvalid
	}

	if !input.ExpiresAt.After(time.Now()) {
		return nil, ErrExpiryInThePast
	}

	member := &models.Member{
		SchoolID:  schoolID,
		Name:      input.Name,
		CPF:       normalized,
		Category:  category,
		CardToken: uuid.New().String(),
		PhotoURL:  input.PhotoURL,
		ExpiresAt: input.ExpiresAt,
		IsActive:  true,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	log.Printf("✅ Member enrolled: %s (school %d)", member.Name, schoolID)
	return member, nil
}

// GetByID gets a member, checking school ownership when schoolID != 0
func (s *MemberService) GetByID(ctx context.Context, id uint, schoolID uint) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if schoolID != 0 && member.SchoolID != schoolID {
		return nil, ErrWrongSchool
	}
	return member, nil
}

// ListBySchool lists a school's members
func (s *MemberService) ListBySchool(ctx context.Context, schoolID uint, search string, offset, limit int) ([]*models.Member, int64, error) {
	return s.memberRepo.ListBySchool(ctx, schoolID, search, offset, limit)
}

// Update updates a member within the caller's school
func (s *MemberService) Update(ctx context.Context, id uint, schoolID uint, input *UpdateMemberInput) (*models.Member, error) {
	member, err := s.GetByID(ctx, id, schoolID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		member.Name = *input.Name
	}
	if input.Category != nil {
		if *input.Category != models.CategoryStudent && *input.Category != models.CategoryDependent {
			return nil, ErrCategoryInvalid
		}
		member.Category = *input.Category
	}
	if input.PhotoURL != nil {
		member.PhotoURL = *input.PhotoURL
	}
	if input.ExpiresAt != nil {
		member.ExpiresAt = *input.ExpiresAt
	}
	if input.IsActive != nil {
		member.IsActive = *input.IsActive
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// ReissueCard revokes the current card token and issues a new one,
// invalidating any printed or saved QR code for this member.
func (s *MemberService) ReissueCard(ctx context.Context, id uint, schoolID uint) (*models.Member, error) {
	member, err := s.GetByID(ctx, id, schoolID)
	if err != nil {
		return nil, err
	}

	member.CardToken = uuid.New().String()
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	log.Printf("✅ Card reissued for member %d", member.ID)
	return member, nil
}

// Delete soft deletes a member within the caller's school
func (s *MemberService) Delete(ctx context.Context, id uint, schoolID uint) error {
	if _, err := s.GetByID(ctx, id, schoolID); err != nil {
		return err
	}
	return s.memberRepo.Delete(ctx, id)
}
