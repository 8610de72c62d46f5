package interfaces

import (
	"context"
	"time"

	"user-server/shared/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data persistence.
// Implementations live in shared/database (PostgreSQL, MongoDB, in-memory).
// Emails passed in are expected to be normalized by the caller.
type UserRepository interface {
	// CreateUser inserts a new user, assigning ID and timestamps when empty.
	// Returns models.ErrEmailAlreadyExists on a uniqueness violation.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by their ID.
	// Returns models.ErrUserNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetUserByEmail retrieves a user by their email address.
	// Returns models.ErrUserNotFound if the user does not exist.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ListUsers returns one page of users ordered by created_at DESC, id DESC, plus the total count.
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error)

	// UpdateProfile applies the non-nil fields of upd and returns the updated user.
	// Returns models.ErrUserNotFound or models.ErrEmailAlreadyExists.
	UpdateProfile(ctx context.Context, id uuid.UUID, upd models.UserProfileUpdate) (*models.User, error)

	// UpdatePasswordHash обновляет хеш пароля пользователя.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error

	// SetStatus sets the account status and returns the updated user.
	SetStatus(ctx context.Context, id uuid.UUID, status models.UserStatus) (*models.User, error)

	// TouchLastLogin records a successful login time.
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
