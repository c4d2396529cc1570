package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSubject identifies the single owner of the books.
const TokenSubject = "owner"

// GenerateToken signs an HS256 token for the owner, valid for ttl.
func GenerateToken(secret string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   TokenSubject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies signature, expiry and subject.
func ParseToken(secret, tokenStr string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject != TokenSubject {
		return nil, errors.Join(jwt.ErrTokenInvalidClaims, errors.New("unexpected subject"))
	}
	return claims, nil
}
