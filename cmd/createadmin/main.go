// Command createadmin создает пользователя с ролью admin, если такого email еще нет.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"user-server/internal/config"
	"user-server/internal/messaging"
	"user-server/internal/platform/storage"
	"user-server/internal/service"
	"user-server/internal/validator"
	sharedLogger "user-server/shared/logger"

	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "admin@example.com", "admin email")
	password := flag.String("password", "Admin@123", "admin password")
	name := flag.String("name", "Admin User", "admin full name")
	envFile := flag.String("env", ".env", "optional .env file")
	flag.Parse()

	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := sharedLogger.New(sharedLogger.Config{
		Level:       cfg.LogLevel,
		Encoding:    "console",
		ServiceName: "createadmin",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, *email, *password, *name); err != nil {
		logger.Error("Admin creation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger, email, password, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := storage.OpenUserStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	authSvc := service.NewAuthService(
		store.Repo,
		service.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL),
		service.NewPasswordHasher(cfg.PasswordPepper, cfg.BcryptCost),
		nil,
		messaging.NoopPublisher{},
		validator.New(),
		cfg,
		logger,
	)

	admin, created, err := authSvc.EnsureAdmin(ctx, email, password, name)
	if err != nil {
		return err
	}
	if !created {
		logger.Info("Admin user already exists", zap.String("email", admin.Email), zap.String("role", string(admin.Role)))
		return nil
	}
	logger.Info("Admin user created", zap.String("userID", admin.ID.String()), zap.String("email", admin.Email))
	return nil
}
