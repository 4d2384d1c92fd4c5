package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoActor = errors.New("token has no actor")

// GenerateToken signs an HS256 token naming actor as its subject.
func GenerateToken(actor, secret string, ttl time.Duration) (string, error) {
	if actor == "" {
		return "", ErrNoActor
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   actor,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// ValidateToken verifies the signature and expiry and returns the actor.
func ValidateToken(tokenString, secret string) (string, error) {
	var claims jwt.RegisteredClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("validating token: %w", err)
	}

	if !token.Valid {
		return "", errors.New("validating token: invalid claims")
	}

	if claims.Subject == "" {
		return "", ErrNoActor
	}

	return claims.Subject, nil
}
