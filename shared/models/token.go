package models

import "time"

// TokenDetails holds a freshly issued bearer token and its identity.
type TokenDetails struct {
	Token     string    `json:"token"`
	TokenID   string    `json:"-"` // jti, used for revocation
	ExpiresAt time.Time `json:"expires_at"`
}
