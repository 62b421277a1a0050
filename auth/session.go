// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long a sign-in stays valid.
const SessionTTL = 24 * time.Hour

var (
	ErrInvalidSession = errors.New("invalid or expired session")
	ErrNotAdmin       = errors.New("admin access required")
)

// SessionClaims identify a signed-in profile. ID (jti) is what sign-out revokes.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// IssueSession signs a session token for profileID.
func IssueSession(profileID, secret string, now time.Time) (string, *SessionClaims, error) {
	jti, err := GenerateID(16)
	if err != nil {
		return "", nil, err
	}

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, claims, nil
}

// ParseSession validates signature, algorithm and expiry.
func ParseSession(tokenString, secret string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
