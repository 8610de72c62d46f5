package service

import (
	"context"

	"user-server/shared/models"

	"github.com/google/uuid"
)

// AuthService defines registration, login and token-based authentication.
type AuthService interface {
	Register(ctx context.Context, fullName, email, password string) (*models.User, *models.TokenDetails, error)
	Login(ctx context.Context, email, password string) (*models.User, *models.TokenDetails, error)
	// Logout revokes tokenString when revocation is enabled; otherwise it is a no-op.
	Logout(ctx context.Context, tokenString string) error
	// Authenticate verifies a bearer token and loads its user.
	Authenticate(ctx context.Context, tokenString string) (*models.User, *models.Claims, error)
	// EnsureAdmin creates an administrator unless a user with that email already exists.
	// The bool result reports whether a new user was created.
	EnsureAdmin(ctx context.Context, email, password, fullName string) (*models.User, bool, error)
}

// UserService covers self-service profile operations and admin user management.
type UserService interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd models.UserProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	ListUsers(ctx context.Context, page, pageSize int) (*models.UserPage, error)
	SetUserStatus(ctx context.Context, actorID, targetID uuid.UUID, status models.UserStatus) (*models.User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenManager issues and verifies signed bearer tokens.
type TokenManager interface {
	Issue(userID uuid.UUID) (*models.TokenDetails, error)
	Verify(tokenString string) (*models.Claims, error)
}
