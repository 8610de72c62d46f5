package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock TokenRevocationStore
type TokenRevocationStore struct {
	mock.Mock
}

func (m *TokenRevocationStore) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, expiresAt)
	return args.Error(0)
}
func (m *TokenRevocationStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}
func (m *TokenRevocationStore) RevokeUserTokensBefore(ctx context.Context, userID uuid.UUID, before time.Time, ttl time.Duration) error {
	args := m.Called(ctx, userID, before, ttl)
	return args.Error(0)
}
func (m *TokenRevocationStore) UserTokensRevokedBefore(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(time.Time), args.Error(1)
}
