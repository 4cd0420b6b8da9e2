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
	ErrTokenRevoked       = errors.New("token revoked")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserInactive      = errors.New("user account is inactive")
	ErrEmailAlreadyUsed  = errors.New("email already registered")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrOwnRoleChange     = errors.New("cannot change own role")
	ErrSelfDelete        = errors.New("cannot delete own account")
)

// Business errors
var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrNotBusinessOwner = errors.New("not the business owner")
	ErrNoBusiness       = errors.New("user has no registered business")
)

// Ad errors
var (
	ErrAdNotFound        = errors.New("ad not found")
	ErrInvalidAdWindow   = errors.New("ad end date must be after start date")
	ErrInvalidAdStatus   = errors.New("invalid ad status")
	ErrInvalidAdTarget   = errors.New("invalid ad target for role")
	ErrInvalidBannerType = errors.New("invalid banner type")
)

// Blood module errors
var (
	ErrDonorNotFound    = errors.New("blood donor not found")
	ErrInvalidBloodType = errors.New("invalid blood type")
	ErrRequestNotFound  = errors.New("blood request not found")
	ErrInvalidUnits     = errors.New("units must be between 1 and 10")
	ErrInvalidUrgency   = errors.New("invalid urgency level")
	ErrInvalidStatus    = errors.New("invalid status")
)

// Job errors
var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobExpired  = errors.New("job posting has expired")
)
