package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"user-server/shared/utils"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Supported user store backends.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

// Config holds the application configuration.
type Config struct {
	Env             string        `envconfig:"ENV" default:"development"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding     string        `envconfig:"LOG_ENCODING" default:"json"`
	ServerPort      string        `envconfig:"SERVER_PORT" default:"8080"`
	APIBasePath     string        `envconfig:"API_BASE_PATH" default:"/api"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	SecretsDir      string        `envconfig:"SECRETS_DIR" default:"/run/secrets"`

	// Хранилище пользователей: postgres | mongo | memory
	StoreDriver string `envconfig:"STORE_DRIVER" default:"postgres"`

	// PostgreSQL
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"users"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	// Секретное поле БЕЗ envconfig тега
	DBPassword string

	// MongoDB. URI is a secret (it usually embeds credentials).
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"user_server"`
	MongoURI      string

	// Redis is optional: empty address disables revocation and keeps the rate limiter in memory.
	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPassword string

	// JWT / passwords - секреты БЕЗ envconfig тегов
	JWTSecret      string
	PasswordPepper string
	JWTIssuer      string        `envconfig:"JWT_ISSUER" default:"user-server"`
	TokenTTL       time.Duration `envconfig:"JWT_TOKEN_TTL" default:"720h"`
	BcryptCost     int           `envconfig:"BCRYPT_COST" default:"10"`

	// Auth behaviour switches
	TokenRevocationEnabled bool `envconfig:"TOKEN_REVOCATION_ENABLED" default:"false"`
	HideLoginFailureReason bool `envconfig:"AUTH_HIDE_LOGIN_FAILURE_REASON" default:"false"`
	RejectInactiveTokens   bool `envconfig:"AUTH_REJECT_INACTIVE_TOKENS" default:"false"`
	// Requests per minute per client IP on register/login. 0 disables the limiter.
	AuthRateLimit int `envconfig:"AUTH_RATE_LIMIT" default:"10"`

	// CORS Settings
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// RabbitMQ. Empty URL disables event publishing.
	RabbitMQURL     string `envconfig:"RABBITMQ_URL" default:""`
	UserEventsQueue string `envconfig:"USER_EVENTS_QUEUE" default:"user_events"`

	// Admin bootstrap at startup. Password comes from the admin_bootstrap_password secret.
	AdminBootstrapEmail    string `envconfig:"ADMIN_BOOTSTRAP_EMAIL" default:""`
	AdminBootstrapName     string `envconfig:"ADMIN_BOOTSTRAP_NAME" default:"Admin User"`
	AdminBootstrapPassword string
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	origins := strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
	result := origins[:0]
	for _, o := range origins {
		if o != "" {
			result = append(result, o)
		}
	}
	return result
}

// PostgresDSN builds the pgx connection string.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// Validate rejects inconsistent settings.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMongo, StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret must not be empty"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_TOKEN_TTL must be positive"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d out of range 4..31", c.BcryptCost))
	}
	if c.AuthRateLimit < 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must not be negative"))
	}
	if c.TokenRevocationEnabled && !c.RedisEnabled() {
		errs = append(errs, errors.New("TOKEN_REVOCATION_ENABLED requires REDIS_ADDR"))
	}
	if c.StoreDriver == StoreDriverMongo && c.MongoURI == "" {
		errs = append(errs, errors.New("mongo_uri is required for the mongo store"))
	}
	if c.AdminBootstrapEmail != "" && c.AdminBootstrapPassword == "" {
		errs = append(errs, errors.New("admin_bootstrap_password is required when ADMIN_BOOTSTRAP_EMAIL is set"))
	}
	if !strings.HasPrefix(c.APIBasePath, "/") {
		errs = append(errs, fmt.Errorf("API_BASE_PATH %q must start with /", c.APIBasePath))
	}

	return errors.Join(errs...)
}

// LoadConfig loads configuration from environment variables and secrets.
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err = godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
			} else {
				log.Printf("Loaded configuration from %s", envFilePath)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
		}
	}

	var cfg Config
	// Загружаем НЕсекретные переменные из окружения
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	// Загружаем ОБЯЗАТЕЛЬНЫЕ секреты
	var loadErr error
	cfg.JWTSecret, loadErr = utils.ReadSecret(cfg.SecretsDir, "jwt_secret")
	if loadErr != nil {
		return nil, loadErr
	}
	cfg.PasswordPepper, loadErr = utils.ReadSecret(cfg.SecretsDir, "password_pepper")
	if loadErr != nil {
		return nil, loadErr
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		cfg.DBPassword, loadErr = utils.ReadSecret(cfg.SecretsDir, "db_password")
		if loadErr != nil {
			return nil, loadErr
		}
	case StoreDriverMongo:
		cfg.MongoURI, loadErr = utils.ReadSecret(cfg.SecretsDir, "mongo_uri")
		if loadErr != nil {
			return nil, loadErr
		}
	}

	if cfg.AdminBootstrapEmail != "" {
		cfg.AdminBootstrapPassword, loadErr = utils.ReadSecret(cfg.SecretsDir, "admin_bootstrap_password")
		if loadErr != nil {
			return nil, loadErr
		}
	}

	// Загружаем НЕОБЯЗАТЕЛЬНЫЕ секреты
	if cfg.RedisEnabled() {
		if redisPass, err := utils.ReadSecret(cfg.SecretsDir, "redis_password"); err == nil {
			cfg.RedisPassword = redisPass
		} else {
			log.Printf("Optional secret 'redis_password' not found: %v. Assuming no password.", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("Configuration loaded successfully.")
	return &cfg, nil
}
