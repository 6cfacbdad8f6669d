package services

import (
	"context"
	"testing"
	"time"

	"unipass-backend/internal/adapters/persistence/models"
	"unipass-backend/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMemberService(t *testing.T) (*MemberService, *gorm.DB, *models.School) {
	t.Helper()
	db := setupTestDB(t)

	school := &models.School{Name: "Escola Modelo", Slug: "escola-modelo", IsActive: true}
	require.NoError(t, db.Create(school).Error)

	svc := NewMemberService(
		repositories.NewMemberRepository(db),
		repositories.NewSchoolRepository(db),
	)
	return svc, db, school
}

func validEnrollInput() *EnrollMemberInput {
	return &EnrollMemberInput{
		Name:      "Bruno Lima",
		CPF:       "529.982.247-25",
		ExpiresAt: time.Now().AddDate(1, 0, 0),
	}
}

func TestEnroll_IssuesCardToken(t *testing.T) {
	svc, _, school := newMemberService(t)

	member, err := svc.Enroll(context.Background(), school.ID, validEnrollInput())
	require.NoError(t, err)

	assert.NotEmpty(t, member.CardToken)
	assert.Len(t, member.CardToken, 36)
	assert.Equal(t, "52998224725", member.CPF)
	assert.Equal(t, models.CategoryStudent, member.Category)
	assert.True(t, member.IsActive)
}

func TestEnroll_RejectsInvalidCPF(t *testing.T) {
	svc, _, school := newMemberService(t)

	input := validEnrollInput()
	input.CPF = "123.456.789-00"
	_, err := svc.Enroll(context.Background(), school.ID, input)
	assert.ErrorIs(t, err, ErrCPFInvalid)
}

func TestEnroll_RejectsDuplicateCPF(t *testing.T) {
	svc, _, school := newMemberService(t)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, school.ID, validEnrollInput())
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, school.ID, validEnrollInput())
	assert.ErrorIs(t, err, ErrCPFAlreadyUsed)
}

func TestEnroll_RejectsUnknownCategory(t *testing.T) {
	svc, _, school := newMemberService(t)

	input := validEnrollInput()
	input.Category = "ALUMNI"
	_, err := svc.Enroll(context.Background(), school.ID, input)
	assert.ErrorIs(t, err, ErrCategoryInvalid)
}

func TestEnroll_RejectsPastExpiry(t *testing.T) {
	svc, _, school := newMemberService(t)

	input := validEnrollInput()
	input.ExpiresAt = time.Now().AddDate(0, 0, -1)
	_, err := svc.Enroll(context.Background(), school.ID, input)
	assert.ErrorIs(t, err, ErrExpiryInThePast)
}

func TestReissueCard_RevokesOldToken(t *testing.T) {
	svc, _, school := newMemberService(t)
	ctx := context.Background()

	member, err := svc.Enroll(ctx, school.ID, validEnrollInput())
	require.NoError(t, err)
	oldToken := member.CardToken

	reissued, err := svc.ReissueCard(ctx, member.ID, school.ID)
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, reissued.CardToken)
}

func TestMemberSchoolScope(t *testing.T) {
	svc, db, school := newMemberService(t)
	ctx := context.Background()

	other := &models.School{Name: "Outra Escola", Slug: "outra-escola", IsActive: true}
	require.NoError(t, db.Create(other).Error)

	member, err := svc.Enroll(ctx, school.ID, validEnrollInput())
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, member.ID, other.ID)
	assert.ErrorIs(t, err, ErrWrongSchool)

	_, err = svc.ReissueCard(ctx, member.ID, other.ID)
	assert.ErrorIs(t, err, ErrWrongSchool)
}
