package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"user-server/internal/config"
	"user-server/internal/validator"
	"user-server/shared/interfaces"
	"user-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var _ UserService = (*userServiceImpl)(nil)

type userServiceImpl struct {
	userRepo    interfaces.UserRepository
	hasher      PasswordHasher
	revocations interfaces.TokenRevocationStore
	publisher   interfaces.UserEventPublisher
	validator   *validator.Validator
	cfg         *config.Config
	logger      *zap.Logger
	now         func() time.Time
}

// NewUserService creates a UserService. revocations may be nil.
func NewUserService(
	userRepo interfaces.UserRepository,
	hasher PasswordHasher,
	revocations interfaces.TokenRevocationStore,
	publisher interfaces.UserEventPublisher,
	v *validator.Validator,
	cfg *config.Config,
	logger *zap.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		hasher:      hasher,
		revocations: revocations,
		publisher:   publisher,
		validator:   v,
		cfg:         cfg,
		logger:      logger.Named("UserService"),
		now:         time.Now,
	}
}

// UpdateProfile applies the non-nil fields of upd. An empty update returns the current user.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, upd models.UserProfileUpdate) (*models.User, error) {
	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if err := s.validator.Var("fullName", name, "required,max=100"); err != nil {
			return nil, err
		}
		upd.FullName = &name
	}
	if upd.Email != nil {
		email := NormalizeEmail(*upd.Email)
		if err := s.validator.Var("email", email, "required,email"); err != nil {
			return nil, err
		}
		upd.Email = &email
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	if !upd.IsEmpty() {
		s.publish(ctx, models.NewUserEvent(models.UserEventProfileUpdated, user))
		s.logger.Info("Profile updated", zap.String("userID", userID.String()))
	}
	return user, nil
}

// ChangePassword обновляет пароль после проверки текущего.
func (s *userServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	missing := map[string]string{}
	if currentPassword == "" {
		missing["currentPassword"] = "is required"
	}
	if newPassword == "" {
		missing["newPassword"] = "is required"
	}
	if len(missing) > 0 {
		return &validator.ValidationError{Errors: missing}
	}

	log := s.logger.With(zap.String("userID", userID.String()))
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		log.Warn("Password change rejected: wrong current password")
		return models.ErrWrongCurrentPassword
	}
	if err := s.validator.Var("newPassword", newPassword, "password"); err != nil {
		return err
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		log.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return err
	}

	s.publish(ctx, models.NewUserEvent(models.UserEventPasswordChanged, user))
	log.Info("User password updated")
	return nil
}

// ListUsers returns one page of users, newest first. page < 1 is treated as 1.
func (s *userServiceImpl) ListUsers(ctx context.Context, page, pageSize int) (*models.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	users, total, err := s.userRepo.ListUsers(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err), zap.Int("page", page))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &models.UserPage{Users: users, Total: total, Page: page, PageSize: pageSize}, nil
}

// SetUserStatus activates or deactivates a user on behalf of an admin.
func (s *userServiceImpl) SetUserStatus(ctx context.Context, actorID, targetID uuid.UUID, status models.UserStatus) (*models.User, error) {
	if err := s.validator.Var("status", string(status), "required,user-status"); err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("actorID", actorID.String()), zap.String("targetID", targetID.String()), zap.String("status", string(status)))

	user, err := s.userRepo.SetStatus(ctx, targetID, status)
	if err != nil {
		if !errors.Is(err, models.ErrUserNotFound) {
			log.Error("Failed to set user status", zap.Error(err))
		}
		return nil, err
	}

	if s.revocations != nil {
		// Статус уже изменен, поэтому ошибки отзыва только логируем
		var err error
		if status == models.StatusInactive {
			err = s.revocations.RevokeUserTokensBefore(ctx, targetID, s.now(), s.cfg.TokenTTL)
		} else {
			err = s.releaseSameSecondCutoff(ctx, targetID)
		}
		if err != nil {
			log.Error("Failed to update token revocation of user", zap.Error(err))
		}
	}

	event := models.NewUserEvent(models.UserEventStatusChanged, user)
	event.ActorID = &actorID
	s.publish(ctx, event)

	log.Info("User status changed")
	return user, nil
}

// releaseSameSecondCutoff сдвигает отметку отзыва на секунду назад, если она приходится
// на текущую секунду. iat в токене хранится с точностью до секунды.
func (s *userServiceImpl) releaseSameSecondCutoff(ctx context.Context, userID uuid.UUID) error {
	cutoff, err := s.revocations.UserTokensRevokedBefore(ctx, userID)
	if err != nil {
		return err
	}
	nowSec := s.now().Unix()
	if cutoff.IsZero() || cutoff.Unix() < nowSec {
		return nil
	}
	return s.revocations.RevokeUserTokensBefore(ctx, userID, time.Unix(nowSec-1, 0), s.cfg.TokenTTL)
}

func (s *userServiceImpl) publish(ctx context.Context, event models.UserEvent) {
	if err := s.publisher.PublishUserEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish user event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
