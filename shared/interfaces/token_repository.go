package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenRevocationStore keeps server-side revocation state for otherwise stateless tokens.
// It is only wired when token revocation is enabled in configuration.
type TokenRevocationStore interface {
	// RevokeToken marks the token ID as revoked until expiresAt.
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsTokenRevoked reports whether the token ID has been revoked.
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)

	// RevokeUserTokensBefore rejects every token of the user issued before `before`.
	// ttl bounds how long the marker is kept (the maximum token lifetime).
	RevokeUserTokensBefore(ctx context.Context, userID uuid.UUID, before time.Time, ttl time.Duration) error

	// UserTokensRevokedBefore returns the cut-off recorded for the user, or zero time if none.
	UserTokensRevokedBefore(ctx context.Context, userID uuid.UUID) (time.Time, error)
}
