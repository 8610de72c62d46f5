package service

import (
	"errors"
	"fmt"
	"time"

	"user-server/shared/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var _ TokenManager = (*jwtTokenManager)(nil)

type jwtTokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns an HS256 JWT issuer/verifier.
func NewTokenManager(secret, issuer string, ttl time.Duration) TokenManager {
	return &jwtTokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *jwtTokenManager) Issue(userID uuid.UUID) (*models.TokenDetails, error) {
	now := m.now()
	td := &models.TokenDetails{
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(m.ttl),
	}

	claims := &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        td.TokenID,
			Subject:   userID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(td.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	td.Token = signed
	return td, nil
}

// Verify parses tokenString and maps every failure to ErrTokenExpired,
// ErrTokenMalformed or ErrTokenInvalid.
func (m *jwtTokenManager) Verify(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, models.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, models.ErrTokenMalformed
		default:
			return nil, fmt.Errorf("%w: %v", models.ErrTokenInvalid, err)
		}
	}
	if !token.Valid || claims.UserID == uuid.Nil || claims.ID == "" {
		return nil, models.ErrTokenInvalid
	}
	return claims, nil
}
