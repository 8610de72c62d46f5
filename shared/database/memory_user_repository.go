package database

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"user-server/shared/interfaces"
	"user-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ interfaces.UserRepository = (*memoryUserRepository)(nil)

// memoryUserRepository keeps users in process memory. Used for local runs and tests.
type memoryUserRepository struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
	logger  *zap.Logger
	now     func() time.Time
}

// NewMemoryUserRepository creates an empty in-memory UserRepository.
func NewMemoryUserRepository(logger *zap.Logger) interfaces.UserRepository {
	return &memoryUserRepository{
		users:   make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
		logger:  logger.Named("MemoryUserRepo"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryUserRepository) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.byEmail[key]; exists {
		return models.ErrEmailAlreadyExists
	}
	prepareNewUser(user, r.now())

	r.users[user.ID] = *user
	r.byEmail[key] = user.ID
	r.logger.Debug("User created", zap.String("userID", user.ID.String()))
	return nil
}

func (r *memoryUserRepository) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &u, nil
}

func (r *memoryUserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	u := r.users[id]
	return &u, nil
}

func (r *memoryUserRepository) ListUsers(_ context.Context, offset, limit int) ([]models.User, int64, error) {
	r.mu.RLock()
	all := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() > all[j].ID.String()
	})

	total := int64(len(all))
	if offset >= len(all) {
		return []models.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memoryUserRepository) UpdateProfile(_ context.Context, id uuid.UUID, upd models.UserProfileUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	if upd.IsEmpty() {
		return &u, nil
	}
	if upd.Email != nil {
		newKey := strings.ToLower(*upd.Email)
		oldKey := strings.ToLower(u.Email)
		if owner, exists := r.byEmail[newKey]; exists && owner != id {
			return nil, models.ErrEmailAlreadyExists
		}
		delete(r.byEmail, oldKey)
		r.byEmail[newKey] = id
		u.Email = *upd.Email
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	u.UpdatedAt = r.now()
	r.users[id] = u
	return &u, nil
}

func (r *memoryUserRepository) UpdatePasswordHash(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.now()
	r.users[id] = u
	return nil
}

func (r *memoryUserRepository) SetStatus(_ context.Context, id uuid.UUID, status models.UserStatus) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	u.Status = status
	u.UpdatedAt = r.now()
	r.users[id] = u
	return &u, nil
}

func (r *memoryUserRepository) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	t := at.UTC()
	u.LastLogin = &t
	r.users[id] = u
	return nil
}
