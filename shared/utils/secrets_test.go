package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSecret_FromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("  file-secret\n"), 0o600))
	t.Setenv("JWT_SECRET", "env-secret")

	got, err := ReadSecret(dir, "jwt_secret")
	require.NoError(t, err)
	assert.Equal(t, "file-secret", got)
}

func TestReadSecret_EnvFallback(t *testing.T) {
	t.Setenv("PASSWORD_PEPPER", "env-pepper")

	got, err := ReadSecret(t.TempDir(), "password_pepper")
	require.NoError(t, err)
	assert.Equal(t, "env-pepper", got)
}

func TestReadSecret_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("   "), 0o600))

	_, err := ReadSecret(dir, "db_password")
	assert.Error(t, err)
}

func TestReadSecret_Missing(t *testing.T) {
	t.Setenv("REDIS_PASSWORD", "")

	_, err := ReadSecret(t.TempDir(), "redis_password")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}
