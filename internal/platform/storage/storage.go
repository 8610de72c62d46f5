// Package storage открывает соединения с внешними хранилищами и собирает
// из них репозиторий пользователей по настройке STORE_DRIVER.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user-server/internal/config"
	"user-server/pkg/migration"
	"user-server/shared/database"
	"user-server/shared/interfaces"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const (
	defaultMinConns          = 1                // Минимальное количество соединений в пуле
	defaultMaxConnLifetime   = time.Hour        // Максимальное время жизни соединения
	defaultMaxConnIdleTime   = 30 * time.Minute // Максимальное время простоя соединения
	defaultHealthCheckPeriod = time.Minute      // Периодичность проверки работоспособности соединения
	defaultConnectTimeout    = 5 * time.Second  // Таймаут подключения

	maxConnectAttempts = 10
	retryDelay         = 3 * time.Second
)

// retry calls fn until it succeeds, ctx is done or attempts run out.
func retry(ctx context.Context, logger *zap.Logger, what string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
		lastErr = fn(attemptCtx)
		cancel()
		if lastErr == nil {
			logger.Info("Connected", zap.String("target", what), zap.Int("attempt", attempt))
			return nil
		}

		logger.Warn("Connection failed, retrying...",
			zap.String("target", what),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxConnectAttempts),
			zap.Error(lastErr),
		)
		if attempt == maxConnectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("connecting to %s: %w", what, errors.Join(ctx.Err(), lastErr))
		case <-time.After(retryDelay):
		}
	}
	return fmt.Errorf("failed to connect to %s after %d attempts: %w", what, maxConnectAttempts, lastErr)
}

// NewPgPool создает пул соединений к PostgreSQL и проверяет его пингом.
func NewPgPool(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("unable to parse postgres config: %w", err)
	}
	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MinConns = defaultMinConns
	poolConfig.MaxConnLifetime = defaultMaxConnLifetime
	poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	poolConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	var pool *pgxpool.Pool
	err = retry(ctx, logger, "postgres", func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// ConnectMongo подключается к MongoDB по cfg.MongoURI.
func ConnectMongo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI).SetConnectTimeout(defaultConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("unable to create mongo client: %w", err)
	}
	err = retry(ctx, logger, "mongo", func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// NewRedisClient подключается к Redis. Вызывать только при cfg.RedisEnabled().
func NewRedisClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	err := retry(ctx, logger, "redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// UserStore is an opened user repository together with the function releasing its connections.
type UserStore struct {
	Repo  interfaces.UserRepository
	close func()
}

// Close releases the underlying connections. Safe to call on a zero UserStore.
func (s *UserStore) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenUserStore открывает хранилище, выбранное в cfg.StoreDriver.
// Для postgres перед возвратом применяются миграции.
func OpenUserStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*UserStore, error) {
	logger = logger.With(zap.String("driver", cfg.StoreDriver))

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := NewPgPool(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		migrator := migration.NewMigrator(migration.Config{
			MigrationsPath: database.MigrationsPath,
			MigrationsFS:   database.MigrationsFS,
		}, pool, logger)
		if err := migrator.Up(); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		return &UserStore{
			Repo:  database.NewPgUserRepository(pool, logger),
			close: pool.Close,
		}, nil

	case config.StoreDriverMongo:
		client, err := ConnectMongo(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		repo, err := database.NewMongoUserRepository(ctx, client.Database(cfg.MongoDatabase), logger)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &UserStore{
			Repo: repo,
			close: func() {
				disconnectCtx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
				defer cancel()
				if err := client.Disconnect(disconnectCtx); err != nil {
					logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
				}
			},
		}, nil

	case config.StoreDriverMemory:
		logger.Warn("Using in-memory user store; data is lost on restart")
		return &UserStore{Repo: database.NewMemoryUserRepository(logger)}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
