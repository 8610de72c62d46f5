package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"user-server/shared/interfaces"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check to ensure redisTokenRepository implements TokenRevocationStore
var _ interfaces.TokenRevocationStore = (*redisTokenRepository)(nil)

const (
	revokedTokenKeyPrefix      = "revoked_token:"
	userRevokedBeforeKeyPrefix = "user_tokens_revoked_before:"
)

type redisTokenRepository struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewRedisTokenRepository creates a new Redis-backed TokenRevocationStore.
func NewRedisTokenRepository(client redis.UniversalClient, logger *zap.Logger) interfaces.TokenRevocationStore {
	return &redisTokenRepository{
		client: client,
		logger: logger.Named("RedisTokenRepo"),
	}
}

// RevokeToken stores revoked_token:{jti} until the token would have expired anyway.
func (r *redisTokenRepository) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		r.logger.Debug("Token already expired, nothing to revoke", zap.String("tokenID", tokenID))
		return nil
	}
	key := revokedTokenKeyPrefix + tokenID
	r.logger.Debug("Revoking token", zap.String("key", key), zap.Duration("ttl", ttl))
	if err := r.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		r.logger.Error("Failed to revoke token in redis", zap.Error(err), zap.String("tokenID", tokenID))
		return fmt.Errorf("failed to revoke token in redis: %w", err)
	}
	return nil
}

func (r *redisTokenRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedTokenKeyPrefix+tokenID).Result()
	if err != nil {
		r.logger.Error("Failed to check token revocation in redis", zap.Error(err), zap.String("tokenID", tokenID))
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// RevokeUserTokensBefore records a unix-seconds cut-off for the user.
func (r *redisTokenRepository) RevokeUserTokensBefore(ctx context.Context, userID uuid.UUID, before time.Time, ttl time.Duration) error {
	key := userRevokedBeforeKeyPrefix + userID.String()
	r.logger.Debug("Revoking user tokens", zap.String("key", key), zap.Time("before", before), zap.Duration("ttl", ttl))
	if err := r.client.Set(ctx, key, before.Unix(), ttl).Err(); err != nil {
		r.logger.Error("Failed to set user revocation marker in redis", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to set user revocation marker: %w", err)
	}
	return nil
}

func (r *redisTokenRepository) UserTokensRevokedBefore(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	val, err := r.client.Get(ctx, userRevokedBeforeKeyPrefix+userID.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		r.logger.Error("Failed to read user revocation marker from redis", zap.Error(err), zap.String("userID", userID.String()))
		return time.Time{}, fmt.Errorf("failed to read user revocation marker: %w", err)
	}
	sec, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt user revocation marker %q: %w", val, err)
	}
	return time.Unix(sec, 0), nil
}
