package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"user-server/internal/config"
	"user-server/internal/handler"
	"user-server/internal/messaging"
	"user-server/internal/service"
	"user-server/internal/validator"
	"user-server/shared/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestNewRouter_RecordsRequestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		APIBasePath: "/api",
		JWTSecret:   "router-test-secret",
		JWTIssuer:   "user-server",
		TokenTTL:    time.Hour,
		BcryptCost:  bcrypt.MinCost,
	}
	logger := zap.NewNop()
	repo := database.NewMemoryUserRepository(logger)
	hasher := service.NewPasswordHasher("pepper", cfg.BcryptCost)
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	v := validator.New()
	authSvc := service.NewAuthService(repo, tokens, hasher, nil, messaging.NoopPublisher{}, v, cfg, logger)
	userSvc := service.NewUserService(repo, hasher, nil, messaging.NoopPublisher{}, v, cfg, logger)

	router := newRouter(cfg, logger, handler.NewUserHandler(authSvc, userSvc, cfg), nil, "routertest")

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var healthLine, loginLine string
	for _, line := range strings.Split(w.Body.String(), "\n") {
		if !strings.HasPrefix(line, "routertest_requests_total{") {
			continue
		}
		switch {
		case strings.Contains(line, `url="/health"`):
			healthLine = line
		case strings.Contains(line, `url="/api/auth/login"`):
			loginLine = line
		}
	}
	assert.Contains(t, healthLine, `code="200"`)
	assert.True(t, strings.HasSuffix(healthLine, " 3"), healthLine)
	assert.Contains(t, loginLine, `code="400"`)
}
