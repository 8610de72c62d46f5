package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecret(t *testing.T, dir, name, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value), 0o600))
}

func setupSecrets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeSecret(t, dir, "jwt_secret", "test-jwt-secret")
	writeSecret(t, dir, "password_pepper", "test-pepper")
	writeSecret(t, dir, "db_password", "test-db-password")
	t.Setenv("SECRETS_DIR", dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	setupSecrets(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "/api", cfg.APIBasePath)
	assert.Equal(t, 720*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.AuthRateLimit)
	assert.Equal(t, "test-jwt-secret", cfg.JWTSecret)
	assert.Equal(t, "test-pepper", cfg.PasswordPepper)
	assert.Equal(t, "test-db-password", cfg.DBPassword)
	assert.False(t, cfg.TokenRevocationEnabled)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfig_MissingJWTSecret(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "password_pepper", "pepper")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_RevocationRequiresRedis(t *testing.T) {
	setupSecrets(t)
	t.Setenv("TOKEN_REVOCATION_ENABLED", "true")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ADDR")
}

func TestLoadConfig_MemoryStoreNeedsNoDBPassword(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "jwt_secret", "s")
	writeSecret(t, dir, "password_pepper", "p")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DB_PASSWORD", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.DBPassword)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	setupSecrets(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("AUTH_RATE_LIMIT=3\n"), 0o600))
	t.Setenv("AUTH_RATE_LIMIT", "")
	os.Unsetenv("AUTH_RATE_LIMIT")

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.AuthRateLimit)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			StoreDriver:   StoreDriverMemory,
			JWTSecret:     "secret",
			TokenTTL:      time.Hour,
			BcryptCost:    10,
			AuthRateLimit: 10,
			APIBasePath:   "/api",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.StoreDriver = "sqlite" }, true},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }, true},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 2 }, true},
		{"negative rate limit", func(c *Config) { c.AuthRateLimit = -1 }, true},
		{"revocation without redis", func(c *Config) { c.TokenRevocationEnabled = true }, true},
		{"revocation with redis", func(c *Config) {
			c.TokenRevocationEnabled = true
			c.RedisAddr = "localhost:6379"
		}, false},
		{"mongo without uri", func(c *Config) { c.StoreDriver = StoreDriverMongo }, true},
		{"bootstrap without password", func(c *Config) { c.AdminBootstrapEmail = "admin@example.com" }, true},
		{"base path without slash", func(c *Config) { c.APIBasePath = "api" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetAllowedOrigins(t *testing.T) {
	cfg := Config{CORSAllowedOrigins: "http://a.com, http://b.com,,"}
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.GetAllowedOrigins())

	cfg.CORSAllowedOrigins = ""
	assert.Nil(t, cfg.GetAllowedOrigins())
}

func TestPostgresDSN(t *testing.T) {
	cfg := Config{DBUser: "u", DBPassword: "p@ss", DBHost: "db", DBPort: "5432", DBName: "users", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/users?sslmode=disable", cfg.PostgresDSN())
}
