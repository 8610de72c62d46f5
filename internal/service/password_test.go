package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	password := "mysecretpassword1"
	pepper := "test-pepper-for-unit-tests"

	hashed, err := hashPassword(password, pepper, bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, password, hashed)

	assert.True(t, checkPasswordHash(password, hashed, pepper))
	assert.False(t, checkPasswordHash("wrongpassword1", hashed, pepper))
	// Другой перец - другой результат HMAC
	assert.False(t, checkPasswordHash(password, hashed, "another-pepper"))
	assert.False(t, checkPasswordHash(password, "not-a-bcrypt-hash", pepper))
	assert.False(t, checkPasswordHash(password, "", pepper))
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewPasswordHasher("pepper", bcrypt.MinCost)

	first, err := h.Hash("samePassword1")
	require.NoError(t, err)
	second, err := h.Hash("samePassword1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("samePassword1", first))
	assert.True(t, h.Verify("samePassword1", second))
}

func TestPasswordHasher_LongPasswords(t *testing.T) {
	h := NewPasswordHasher("pepper", bcrypt.MinCost)
	long := strings.Repeat("a1", 50)

	hashed, err := h.Hash(long)
	require.NoError(t, err)
	assert.True(t, h.Verify(long, hashed))
	// Отличие после 72-го байта тоже должно учитываться
	assert.False(t, h.Verify(long[:99]+"b", hashed))
}

func TestNewPasswordHasher_InvalidCostFallsBack(t *testing.T) {
	h := NewPasswordHasher("pepper", 1).(*pepperedHasher)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
