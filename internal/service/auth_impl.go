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

	"go.uber.org/zap"
)

// Compile-time check to ensure authServiceImpl implements AuthService
var _ AuthService = (*authServiceImpl)(nil)

type registerInput struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

// authServiceImpl implements the AuthService interface.
type authServiceImpl struct {
	userRepo    interfaces.UserRepository
	tokens      TokenManager
	hasher      PasswordHasher
	revocations interfaces.TokenRevocationStore // nil when revocation is disabled
	publisher   interfaces.UserEventPublisher
	validator   *validator.Validator
	cfg         *config.Config
	logger      *zap.Logger
	now         func() time.Time
}

// NewAuthService creates a new AuthService. revocations may be nil; publisher must not be.
func NewAuthService(
	userRepo interfaces.UserRepository,
	tokens TokenManager,
	hasher PasswordHasher,
	revocations interfaces.TokenRevocationStore,
	publisher interfaces.UserEventPublisher,
	v *validator.Validator,
	cfg *config.Config,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:    userRepo,
		tokens:      tokens,
		hasher:      hasher,
		revocations: revocations,
		publisher:   publisher,
		validator:   v,
		cfg:         cfg,
		logger:      logger.Named("AuthService"),
		now:         time.Now,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with role user and issues a token for it.
func (s *authServiceImpl) Register(ctx context.Context, fullName, email, password string) (*models.User, *models.TokenDetails, error) {
	input := registerInput{
		FullName: strings.TrimSpace(fullName),
		Email:    NormalizeEmail(email),
		Password: password,
	}
	logFields := []zap.Field{zap.String("email", input.Email)}
	s.logger.Info("Registering new user", logFields...)

	if err := s.validator.Validate(input); err != nil {
		s.logger.Warn("Registration rejected by validation", append(logFields, zap.Error(err))...)
		return nil, nil, err
	}

	existingUser, err := s.userRepo.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		s.logger.Error("Error checking existing email during registration", append(logFields, zap.Error(err))...)
		return nil, nil, fmt.Errorf("error checking existing email: %w", err)
	}
	if existingUser != nil {
		s.logger.Warn("Registration attempt for existing email", logFields...)
		return nil, nil, models.ErrEmailAlreadyExists
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}
	// Уникальность email окончательно гарантирует хранилище
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}

	td, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue token after registration", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.publish(ctx, models.NewUserEvent(models.UserEventRegistered, user))
	s.logger.Info("User registered successfully", zap.String("userID", user.ID.String()))
	return user, td, nil
}

// Login verifies credentials, records the login time and issues a token.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*models.User, *models.TokenDetails, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, models.ErrMissingCredentials
	}
	s.logger.Info("Login attempt", zap.String("email", email))

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Login failed: email not found", zap.String("email", email))
			return nil, nil, s.loginFailure(models.ErrEmailNotFound)
		}
		s.logger.Error("Login failed: error getting user from repository", zap.Error(err), zap.String("email", email))
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Warn("Login failed: wrong password", zap.String("userID", user.ID.String()))
		return nil, nil, s.loginFailure(models.ErrWrongPassword)
	}

	// Статус проверяется только после успешной проверки пароля
	if !user.IsActive() {
		s.logger.Warn("Login failed: account deactivated", zap.String("userID", user.ID.String()))
		return nil, nil, models.ErrAccountDeactivated
	}

	loginAt := s.now().UTC()
	if err = s.userRepo.TouchLastLogin(ctx, user.ID, loginAt); err != nil {
		s.logger.Error("Failed to record last login", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, nil, fmt.Errorf("failed to record last login: %w", err)
	}
	user.LastLogin = &loginAt

	td, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue token during login", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in successfully", zap.String("userID", user.ID.String()))
	return user, td, nil
}

func (s *authServiceImpl) loginFailure(reason error) error {
	if s.cfg.HideLoginFailureReason {
		return models.ErrInvalidCredentials
	}
	return reason
}

// Logout denylists the token when revocation is enabled. Invalid or absent tokens
// are acknowledged without error.
func (s *authServiceImpl) Logout(ctx context.Context, tokenString string) error {
	if s.revocations == nil || tokenString == "" {
		return nil
	}

	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		s.logger.Debug("Logout with unusable token, nothing to revoke", zap.Error(err))
		return nil
	}

	log := s.logger.With(zap.String("userID", claims.UserID.String()), zap.String("tokenID", claims.ID))
	if err := s.revocations.RevokeToken(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		log.Error("Failed to revoke token during logout", zap.Error(err))
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	log.Info("Token revoked on logout")
	return nil
}

// Authenticate verifies the token, checks revocation state and re-fetches the user.
func (s *authServiceImpl) Authenticate(ctx context.Context, tokenString string) (*models.User, *models.Claims, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, nil, err
	}
	log := s.logger.With(zap.String("userID", claims.UserID.String()))

	if s.revocations != nil {
		if err := s.checkRevoked(ctx, claims); err != nil {
			if errors.Is(err, models.ErrTokenRevoked) {
				log.Debug("Rejected revoked token", zap.String("tokenID", claims.ID))
			}
			return nil, nil, err
		}
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Warn("User from valid token not found in store")
			return nil, nil, models.ErrUnauthorized
		}
		log.Error("Failed to get user by ID during authentication", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to get user for authentication: %w", err)
	}

	if s.cfg.RejectInactiveTokens && !user.IsActive() {
		log.Warn("Rejected token of deactivated user")
		return nil, nil, models.ErrAccountDeactivated
	}

	return user, claims, nil
}

func (s *authServiceImpl) checkRevoked(ctx context.Context, claims *models.Claims) error {
	revoked, err := s.revocations.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return models.ErrTokenRevoked
	}

	cutoff, err := s.revocations.UserTokensRevokedBefore(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("failed to check user token revocation: %w", err)
	}
	if !cutoff.IsZero() && (claims.IssuedAt == nil || !claims.IssuedAt.Time.After(cutoff)) {
		return models.ErrTokenRevoked
	}
	return nil
}

// EnsureAdmin creates an active admin unless the email is already taken.
func (s *authServiceImpl) EnsureAdmin(ctx context.Context, email, password, fullName string) (*models.User, bool, error) {
	input := registerInput{
		FullName: strings.TrimSpace(fullName),
		Email:    NormalizeEmail(email),
		Password: password,
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, false, err
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, input.Email)
	if err == nil {
		s.logger.Info("Admin bootstrap skipped: user already exists",
			zap.String("email", input.Email), zap.String("role", string(existing.Role)))
		return existing, false, nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return nil, false, fmt.Errorf("error checking existing admin: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &models.User{
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	}
	if err := s.userRepo.CreateUser(ctx, admin); err != nil {
		if errors.Is(err, models.ErrEmailAlreadyExists) {
			// Создан параллельно
			existing, getErr := s.userRepo.GetUserByEmail(ctx, input.Email)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	s.publish(ctx, models.NewUserEvent(models.UserEventRegistered, admin))
	s.logger.Info("Admin user created", zap.String("userID", admin.ID.String()), zap.String("email", admin.Email))
	return admin, true, nil
}

// publish sends the event and only logs failures; the user-facing operation has already succeeded.
func (s *authServiceImpl) publish(ctx context.Context, event models.UserEvent) {
	if err := s.publisher.PublishUserEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish user event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
