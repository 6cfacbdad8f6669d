package domain

import "time"

// Role represents an account role in the system
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleSchool  Role = "SCHOOL"
	RolePartner Role = "PARTNER"
)

// Member categories
const (
	CategoryStudent   = "STUDENT"
	CategoryDependent = "DEPENDENT"
)

// User represents an operator account in the domain layer
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // Hashed
	Role      Role
	SchoolID  *uint
	PartnerID *uint
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member represents a card holder: a student or one of their dependents
type Member struct {
	ID        uint
	SchoolID  uint
	Name      string
	CPF       string
	Category  string
	CardToken string
	ExpiresAt time.Time
	IsActive  bool
}

// RefreshToken represents a refresh token in the domain
type RefreshToken struct {
	ID        uint
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
