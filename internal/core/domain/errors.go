package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Account errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidPassword   = errors.New("invalid password")
)

// Card and validation errors
var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrCardInactive      = errors.New("card is inactive")
	ErrCardExpired       = errors.New("card has expired")
	ErrInvalidCPF        = errors.New("invalid cpf")
	ErrOfferNotFound     = errors.New("offer not found")
	ErrOfferNotAvailable = errors.New("offer is not available for this member")
)
