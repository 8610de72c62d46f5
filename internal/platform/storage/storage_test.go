package storage

import (
	"context"
	"testing"

	"user-server/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenUserStore_Memory(t *testing.T) {
	store, err := OpenUserStore(context.Background(), &config.Config{StoreDriver: config.StoreDriverMemory}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, store.Repo)
	store.Close()
}

func TestOpenUserStore_UnknownDriver(t *testing.T) {
	_, err := OpenUserStore(context.Background(), &config.Config{StoreDriver: "sqlite"}, zap.NewNop())
	assert.ErrorContains(t, err, "sqlite")
}

func TestUserStore_CloseZero(t *testing.T) {
	var s *UserStore
	assert.NotPanics(t, s.Close)
	assert.NotPanics(t, (&UserStore{}).Close)
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry(ctx, zap.NewNop(), "nothing", func(context.Context) error {
		calls++
		return assert.AnError
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
