// Package auth issues and verifies the bearer tokens that identify callers.
// A token's subject is the caller's 32-byte identity in hex.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/spellcaster/internal/common"
	"github.com/dmitrijs2005/spellcaster/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken signs an HS256 token for owner valid for validityDuration.
func GenerateToken(owner models.Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   owner.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// IdentityFromToken verifies tokenString and returns its subject.
func IdentityFromToken(tokenString string, secretKey []byte) (models.Identity, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Identity{}, common.ErrTokenExpired
		}
		return models.Identity{}, common.ErrInvalidToken
	}

	if !token.Valid {
		return models.Identity{}, common.ErrInvalidToken
	}

	id, err := models.ParseIdentity(claims.Subject)
	if err != nil {
		return models.Identity{}, common.ErrInvalidToken
	}
	return id, nil
}
