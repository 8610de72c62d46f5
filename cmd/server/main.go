package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user-server/internal/config"
	"user-server/internal/handler"
	"user-server/internal/messaging"
	"user-server/internal/platform/storage"
	"user-server/internal/service"
	"user-server/internal/validator"
	"user-server/shared/database"
	"user-server/shared/interfaces"
	sharedLogger "user-server/shared/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	logger, err := sharedLogger.New(sharedLogger.Config{
		Level:       cfg.LogLevel,
		Encoding:    cfg.LogEncoding,
		ServiceName: "user-server",
		Development: cfg.Env == "development",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	zap.ReplaceGlobals(logger)
	zap.L().Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("storeDriver", cfg.StoreDriver),
		zap.Bool("redis", cfg.RedisEnabled()),
		zap.Bool("tokenRevocation", cfg.TokenRevocationEnabled),
	)

	// --- External Connections ---
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := storage.OpenUserStore(ctx, cfg, logger.Named("Storage"))
	if err != nil {
		zap.L().Fatal("Failed to open user store", zap.Error(err))
	}
	defer store.Close()

	var redisClient *redis.Client
	var revocations interfaces.TokenRevocationStore
	if cfg.RedisEnabled() {
		redisClient, err = storage.NewRedisClient(ctx, cfg, logger.Named("Redis"))
		if err != nil {
			zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		if cfg.TokenRevocationEnabled {
			revocations = database.NewRedisTokenRepository(redisClient, logger)
		}
	}

	var publisher interfaces.UserEventPublisher = messaging.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		mqConn, err := messaging.ConnectRabbitMQ(ctx, cfg.RabbitMQURL, logger)
		if err != nil {
			zap.L().Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mqConn.Close()

		publisher, err = messaging.NewRabbitMQUserEventPublisher(mqConn, cfg.UserEventsQueue, logger)
		if err != nil {
			zap.L().Fatal("Failed to create user event publisher", zap.Error(err))
		}
	} else {
		zap.L().Info("RABBITMQ_URL not set, user events are not published")
	}
	defer publisher.Close()

	// --- Dependency Injection ---
	v := validator.New()
	hasher := service.NewPasswordHasher(cfg.PasswordPepper, cfg.BcryptCost)
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	authSvc := service.NewAuthService(store.Repo, tokens, hasher, revocations, publisher, v, cfg, logger)
	userSvc := service.NewUserService(store.Repo, hasher, revocations, publisher, v, cfg, logger)

	if cfg.AdminBootstrapEmail != "" {
		admin, created, err := authSvc.EnsureAdmin(ctx, cfg.AdminBootstrapEmail, cfg.AdminBootstrapPassword, cfg.AdminBootstrapName)
		if err != nil {
			zap.L().Fatal("Failed to bootstrap admin user", zap.Error(err))
		}
		zap.L().Info("Admin bootstrap finished", zap.String("userID", admin.ID.String()), zap.Bool("created", created))
	}

	authLimiter := handler.NewAuthRateLimiter(cfg.AuthRateLimit, redisClient)
	userHandler := handler.NewUserHandler(authSvc, userSvc, cfg)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := newRouter(cfg, logger, userHandler, authLimiter, "gin")

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.ServerPort), zap.String("basePath", cfg.APIBasePath))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}
