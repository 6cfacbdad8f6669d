package repositories

import (
	"context"
	"time"

	"unipass-backend/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByCPF(ctx context.Context, cpf string) (*models.Member, error)
	GetByCardToken(ctx context.Context, token string) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uint) error
	ListBySchool(ctx context.Context, schoolID uint, search string, offset, limit int) ([]*models.Member, int64, error)
	ExistsByCPF(ctx context.Context, cpf string) (bool, error)
	CountBySchool(ctx context.Context, schoolID uint) (int64, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.Member, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// RedemptionRepository defines the append-only redemption log
// interface. There is no Update or Delete: events are immutable.
type RedemptionRepository interface {
	Append(ctx context.Context, event *models.RedemptionEvent) error
	ListByMemberAndPartner(ctx context.Context, memberID, partnerID uint) ([]*models.RedemptionEvent, error)
	ListByPartner(ctx context.Context, partnerID uint, f RedemptionFilter, offset, limit int) ([]*models.RedemptionEvent, int64, error)
	CountByPartnerSince(ctx context.Context, partnerID uint, since time.Time) (int64, error)
	TopOffersByPartner(ctx context.Context, partnerID uint, since time.Time, limit int) ([]OfferCount, error)
}

// RedemptionFilter narrows partner history queries
type RedemptionFilter struct {
	OfferID  string
	MemberID uint
	From     *time.Time
	To       *time.Time
}

// OfferCount pairs an offer id with its redemption count
type OfferCount struct {
	OfferID string `json:"offer_id"`
	Count   int64  `json:"count"`
}
