package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user-server/shared/interfaces"
	"user-server/shared/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgUserRepository implements UserRepository
var _ interfaces.UserRepository = (*pgUserRepository)(nil)

const (
	pgUniqueViolation  = "23505"
	usersEmailUniqueCn = "users_email_key"

	userColumns = `id, full_name, email, password_hash, role, status, last_login, created_at, updated_at`
)

type pgUserRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgUserRepository creates a new PostgreSQL-backed UserRepository.
func NewPgUserRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.UserRepository {
	return &pgUserRepository{
		db:     db,
		logger: logger.Named("PgUserRepo"),
	}
}

// scanUser reads one row selected with userColumns.
func scanUser(row pgx.Row) (*models.User, error) {
	var (
		user   models.User
		role   string
		status string
	)
	err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &role, &status, &user.LastLogin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	user.Status = models.UserStatus(status)
	return &user, nil
}

func isEmailUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == usersEmailUniqueCn
}

// CreateUser inserts a new user into the database.
func (r *pgUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	prepareNewUser(user, time.Now().UTC())

	query := `INSERT INTO users (id, full_name, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("email", user.Email))

	err := r.db.QueryRow(ctx, query, user.ID, user.FullName, user.Email, user.PasswordHash, string(user.Role), string(user.Status), user.CreatedAt, user.UpdatedAt).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isEmailUniqueViolation(err) {
			r.logger.Warn("Attempted to create duplicate user by email", zap.String("email", user.Email))
			return models.ErrEmailAlreadyExists
		}
		r.logger.Error("Failed to create user in postgres", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("failed to create user in postgres: %w", err)
	}
	r.logger.Info("User created successfully", zap.String("userID", user.ID.String()), zap.String("email", user.Email))
	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *pgUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("id", id.String()))

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by ID", zap.String("id", id.String()))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by id from postgres", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get user by id from postgres: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their email.
func (r *pgUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("email", email))

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found by email", zap.String("email", email))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user by email from postgres", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email from postgres: %w", err)
	}
	return user, nil
}

// ListUsers retrieves one page of users, newest first.
func (r *pgUserRepository) ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		r.logger.Error("Failed to get user count from postgres", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to get user count: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int("limit", limit), zap.Int("offset", offset))
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to query users from postgres", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("Failed to scan user row", zap.Error(err))
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating user rows", zap.Error(err))
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, total, nil
}

// UpdateProfile обновляет только переданные поля профиля (full_name, email).
func (r *pgUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.UserProfileUpdate) (*models.User, error) {
	if upd.IsEmpty() {
		r.logger.Debug("UpdateProfile called with no fields to update", zap.String("userID", id.String()))
		return r.GetUserByID(ctx, id)
	}

	query := "UPDATE users SET updated_at = CURRENT_TIMESTAMP"
	args := []any{}
	argID := 1

	if upd.FullName != nil {
		query += fmt.Sprintf(", full_name = $%d", argID)
		args = append(args, *upd.FullName)
		argID++
	}
	if upd.Email != nil {
		query += fmt.Sprintf(", email = $%d", argID)
		args = append(args, *upd.Email)
		argID++
	}
	query += fmt.Sprintf(" WHERE id = $%d RETURNING %s", argID, userColumns)
	args = append(args, id)

	r.logger.Debug("Executing update profile query", zap.String("query", query), zap.String("userID", id.String()))
	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Attempted to update non-existent user", zap.String("userID", id.String()))
			return nil, models.ErrUserNotFound
		}
		if isEmailUniqueViolation(err) {
			r.logger.Warn("Attempted to update user with duplicate email", zap.String("userID", id.String()), zap.Stringp("email", upd.Email))
			return nil, models.ErrEmailAlreadyExists
		}
		r.logger.Error("Failed to update user profile in postgres", zap.Error(err), zap.String("userID", id.String()))
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	r.logger.Info("User profile updated successfully", zap.String("userID", id.String()))
	return user, nil
}

// UpdatePasswordHash обновляет хеш пароля пользователя.
func (r *pgUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("userID", id.String()))

	cmdTag, err := r.db.Exec(ctx, query, passwordHash, id)
	if err != nil {
		r.logger.Error("Failed to update user password hash in postgres", zap.Error(err), zap.String("userID", id.String()))
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update password hash for non-existent user", zap.String("userID", id.String()))
		return models.ErrUserNotFound
	}

	r.logger.Info("User password hash updated successfully", zap.String("userID", id.String()))
	return nil
}

// SetStatus updates the status column for a user.
func (r *pgUserRepository) SetStatus(ctx context.Context, id uuid.UUID, status models.UserStatus) (*models.User, error) {
	query := `UPDATE users SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 RETURNING ` + userColumns
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("userID", id.String()), zap.String("status", string(status)))

	user, err := scanUser(r.db.QueryRow(ctx, query, string(status), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Attempted to update status for non-existent user", zap.String("userID", id.String()))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to update user status in postgres", zap.Error(err), zap.String("userID", id.String()))
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	r.logger.Info("User status updated successfully", zap.String("userID", id.String()), zap.String("status", string(status)))
	return user, nil
}

// TouchLastLogin sets last_login without bumping updated_at.
func (r *pgUserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE users SET last_login = $1 WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, query, at, id)
	if err != nil {
		r.logger.Error("Failed to update last login in postgres", zap.Error(err), zap.String("userID", id.String()))
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	return nil
}
