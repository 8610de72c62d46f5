package service

import (
	"testing"
	"time"

	"user-server/shared/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-jwt-secret"
	testIssuer = "user-server-test"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := NewTokenManager(testSecret, testIssuer, time.Hour)
	userID := uuid.New()

	td, err := m.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, td.Token)
	require.NotEmpty(t, td.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), td.ExpiresAt, 5*time.Second)

	claims, err := m.Verify(td.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, td.TokenID, claims.ID)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestTokenManager_TokenIDsAreUnique(t *testing.T) {
	m := NewTokenManager(testSecret, testIssuer, time.Hour)
	userID := uuid.New()

	a, err := m.Issue(userID)
	require.NoError(t, err)
	b, err := m.Issue(userID)
	require.NoError(t, err)
	assert.NotEqual(t, a.TokenID, b.TokenID)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager(testSecret, testIssuer, time.Hour).(*jwtTokenManager)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	td, err := m.Issue(uuid.New())
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(td.Token)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	td, err := NewTokenManager("other-secret", testIssuer, time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, testIssuer, time.Hour).Verify(td.Token)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestTokenManager_WrongIssuer(t *testing.T) {
	td, err := NewTokenManager(testSecret, "someone-else", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, testIssuer, time.Hour).Verify(td.Token)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestTokenManager_WrongAlgorithm(t *testing.T) {
	userID := uuid.New()
	claims := &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    testIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	m := NewTokenManager(testSecret, testIssuer, time.Hour)

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = m.Verify(hs384)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(none)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestTokenManager_Malformed(t *testing.T) {
	m := NewTokenManager(testSecret, testIssuer, time.Hour)

	for _, tok := range []string{"", "garbage", "not.a.token"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, models.ErrTokenMalformed, "token %q", tok)
	}
}

func TestTokenManager_MissingUserID(t *testing.T) {
	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, testIssuer, time.Hour).Verify(signed)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}
