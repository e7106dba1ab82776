package domain

import "time"

// TokenClaims represents the claims embedded in a bearer token.
// Subject carries the user ID.
type TokenClaims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Exp     int64  `json:"exp"`
	Iat     int64  `json:"iat"`
}

// IsExpired checks if the token is expired.
func (tc TokenClaims) IsExpired() bool {
	return time.Now().Unix() > tc.Exp
}
