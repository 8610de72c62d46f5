package models

import "errors"

// Application-wide standard errors
var (
	// Input errors
	ErrValidation         = errors.New("validation error")
	ErrMissingCredentials = errors.New("email and password are required")

	// User & Authentication Errors
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailAlreadyExists   = errors.New("user with this email already exists")
	ErrEmailNotFound        = errors.New("email not found")
	ErrWrongPassword        = errors.New("incorrect password")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDeactivated   = errors.New("account has been deactivated")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrUnauthorized         = errors.New("unauthorized") // Authentication required or failed
	ErrForbidden            = errors.New("forbidden")    // Authenticated, but lacks permission

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenRevoked   = errors.New("token has been revoked")
)
