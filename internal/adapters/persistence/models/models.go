package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & Account Tables
// ============================================================

// User represents users table. SCHOOL accounts carry a school_id,
// PARTNER accounts a partner_id; ADMIN accounts carry neither.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;not null" json:"role"`
	SchoolID  *uint          `gorm:"index" json:"school_id"`
	PartnerID *uint          `gorm:"index" json:"partner_id"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	School  *School  `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	Partner *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	SchoolID    *uint     `json:"school_id,omitempty"`
	SchoolName  string    `json:"school_name,omitempty"`
	PartnerID   *uint     `json:"partner_id,omitempty"`
	PartnerName string    `json:"partner_name,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		SchoolID:  u.SchoolID,
		PartnerID: u.PartnerID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.School != nil {
		resp.SchoolName = u.School.Name
	}
	if u.Partner != nil {
		resp.PartnerName = u.Partner.Name
	}
	return resp
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Enrollment Tables
// ============================================================

// School represents schools table
type School struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:150;not null" json:"name"`
	Slug      string         `gorm:"size:150;uniqueIndex;not null" json:"slug"`
	City      string         `gorm:"size:100" json:"city"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (School) TableName() string {
	return "schools"
}

// Member categories
const (
	CategoryStudent   = "STUDENT"
	CategoryDependent = "DEPENDENT"
)

// Member represents members table: a student or dependent holding a
// digital ID card. CardToken is the QR payload printed on the card.
type Member struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	SchoolID  uint           `gorm:"not null;index" json:"school_id"`
	Name      string         `gorm:"size:150;not null" json:"name"`
	CPF       string         `gorm:"size:11;uniqueIndex;not null" json:"cpf"`
	Category  string         `gorm:"size:20;not null;default:'STUDENT'" json:"category"`
	CardToken string         `gorm:"size:36;uniqueIndex;not null" json:"card_token"`
	PhotoURL  string         `gorm:"size:500" json:"photo_url"`
	ExpiresAt time.Time      `gorm:"not null" json:"expires_at"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	School *School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

// IsCardValid reports whether the card may be used at the given instant.
func (m *Member) IsCardValid(now time.Time) bool {
	return m.IsActive && now.Before(m.ExpiresAt)
}

// MemberResponse DTO
type MemberResponse struct {
	ID         uint      `json:"id"`
	SchoolID   uint      `json:"school_id"`
	SchoolName string    `json:"school_name,omitempty"`
	Name       string    `json:"name"`
	CPF        string    `json:"cpf"`
	Category   string    `json:"category"`
	CardToken  string    `json:"card_token"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (m *Member) ToResponse() *MemberResponse {
	resp := &MemberResponse{
		ID:        m.ID,
		SchoolID:  m.SchoolID,
		Name:      m.Name,
		CPF:       m.CPF,
		Category:  m.Category,
		CardToken: m.CardToken,
		PhotoURL:  m.PhotoURL,
		ExpiresAt: m.ExpiresAt,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
	if m.School != nil {
		resp.SchoolName = m.School.Name
	}
	return resp
}

// ============================================================
// Partner & Offer Tables
// ============================================================

// Partner represents partners table. StandardBenefit is the implicit
// unlimited offer shown to every validated member; empty means the
// partner has none.
type Partner struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"size:150;not null" json:"name"`
	Slug            string         `gorm:"size:150;uniqueIndex;not null" json:"slug"`
	CNPJ            string         `gorm:"size:14" json:"cnpj"`
	StandardBenefit string         `gorm:"type:text" json:"standard_benefit"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Partner) TableName() string {
	return "partners"
}

// Usage limits (closed set, mirrored by the eligibility engine)
const (
	LimitUnlimited = "UNLIMITED"
	LimitMonthly   = "MONTHLY"
	LimitOnce      = "ONCE"
)

// Promotion represents promotions table
type Promotion struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PartnerID   uint           `gorm:"not null;index" json:"partner_id"`
	Title       string         `gorm:"size:150;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	UsageLimit  string         `gorm:"size:20;not null;default:'UNLIMITED'" json:"usage_limit"`
	ExpiresAt   *time.Time     `json:"expires_at"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Partner *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

func (Promotion) TableName() string {
	return "promotions"
}

// ============================================================
// Redemption Log (append-only)
// ============================================================

// RedemptionEvent represents redemption_events table. Rows are only
// ever inserted; ordering is created_at with id as the tie-break.
type RedemptionEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PartnerID  uint      `gorm:"not null;index:idx_redemptions_lookup" json:"partner_id"`
	MemberID   uint      `gorm:"not null;index:idx_redemptions_lookup" json:"member_id"`
	OfferID    string    `gorm:"size:36;not null;index:idx_redemptions_lookup" json:"offer_id"`
	OperatorID uint      `gorm:"not null" json:"operator_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	Partner  *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	Member   *Member  `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Operator *User    `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
}

func (RedemptionEvent) TableName() string {
	return "redemption_events"
}

// RedemptionEventResponse DTO
type RedemptionEventResponse struct {
	ID           uint      `json:"id"`
	PartnerID    uint      `json:"partner_id"`
	MemberID     uint      `json:"member_id"`
	MemberName   string    `json:"member_name,omitempty"`
	OfferID      string    `json:"offer_id"`
	OperatorID   uint      `json:"operator_id"`
	OperatorName string    `json:"operator_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (e *RedemptionEvent) ToResponse() *RedemptionEventResponse {
	resp := &RedemptionEventResponse{
		ID:         e.ID,
		PartnerID:  e.PartnerID,
		MemberID:   e.MemberID,
		OfferID:    e.OfferID,
		OperatorID: e.OperatorID,
		CreatedAt:  e.CreatedAt,
	}
	if e.Member != nil {
		resp.MemberName = e.Member.Name
	}
	if e.Operator != nil {
		resp.OperatorName = e.Operator.Username
	}
	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&School{},
		&Member{},
		&Partner{},
		&Promotion{},
		&RedemptionEvent{},
	)
}
