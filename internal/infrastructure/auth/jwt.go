package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTIssuer implements ports.TokenIssuer with HS256-signed JWTs.
// The token binds to exactly one subject name; no other claims are promised
// to callers.
type JWTIssuer struct {
	secret   string
	tokenTTL time.Duration
}

func NewJWTIssuer(secret string, tokenTTL time.Duration) *JWTIssuer {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &JWTIssuer{secret: secret, tokenTTL: tokenTTL}
}

func (i *JWTIssuer) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(i.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(i.secret))
}
