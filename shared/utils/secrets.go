package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSecretsDir is the standard Docker Secrets mount point.
const DefaultSecretsDir = "/run/secrets"

// ErrSecretNotFound is returned when neither the secret file nor the env fallback is set.
var ErrSecretNotFound = errors.New("secret not found")

// ReadSecret читает секрет из файла dir/name (Docker Secrets).
// Если файла нет, используется переменная окружения с именем name в верхнем регистре.
func ReadSecret(dir, name string) (string, error) {
	if dir == "" {
		dir = DefaultSecretsDir
	}
	filePath := filepath.Join(dir, name)
	secretBytes, err := os.ReadFile(filePath)
	if err == nil {
		secret := strings.TrimSpace(string(secretBytes))
		if secret == "" {
			return "", fmt.Errorf("secret file %s is empty", filePath)
		}
		return secret, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}

	envName := strings.ToUpper(name)
	if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: no file %s and no %s in environment", ErrSecretNotFound, filePath, envName)
}
