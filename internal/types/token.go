package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in an access token issued by the identity service.
// The subject carries the user id.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// GetAudience implements jwt.Claims
func (c *TokenClaims) GetAudience() (jwt.ClaimStrings, error) {
	return c.RegisteredClaims.GetAudience()
}

// GetExpirationTime implements jwt.Claims
func (c *TokenClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return c.RegisteredClaims.GetExpirationTime()
}

// GetSubject implements jwt.Claims
func (c *TokenClaims) GetSubject() (string, error) {
	return c.RegisteredClaims.GetSubject()
}
