package main

import (
	"testing"
	"time"

	"user-server/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestRun_MemoryStore(t *testing.T) {
	cfg := &config.Config{
		StoreDriver: config.StoreDriverMemory,
		JWTSecret:   "secret",
		JWTIssuer:   "user-server",
		TokenTTL:    time.Hour,
		BcryptCost:  bcrypt.MinCost,
	}

	assert.NoError(t, run(cfg, zap.NewNop(), "admin@example.com", "Admin@123", "Admin User"))
	assert.Error(t, run(cfg, zap.NewNop(), "admin@example.com", "short", "Admin User"))
}
