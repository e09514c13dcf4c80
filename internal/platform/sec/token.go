// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing,
// reset-ticket generation) from the domain logic. It acts as an
// Infrastructure service injected into the application layer via small
// interfaces defined by the consumers.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failures, ordered from least to most specific.
var (
	// ErrTokenMalformed marks a token that is not a structurally valid JWT.
	ErrTokenMalformed = errors.New("sec: malformed token")
	// ErrTokenSignature marks a token whose signature does not verify.
	ErrTokenSignature = errors.New("sec: invalid token signature")
	// ErrTokenExpired marks a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("sec: expired token")
)

// SessionClaims is the payload embedded inside a session token.
//
// Only the principal's id travels in the token; everything else is loaded
// fresh from the store on every protected request so role changes and
// soft-deletes take effect immediately.
type SessionClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
}

// TokenConfig is the explicit configuration for the token service.
// No ambient environment lookups happen past construction.
type TokenConfig struct {
	// Secret is the symmetric HMAC signing key.
	Secret []byte
	// TTL is the fixed lifetime of every issued token.
	TTL time.Duration
	// Issuer is the standard 'iss' claim.
	Issuer string
}

// TokenService issues and verifies session tokens signed with HS256.
type TokenService struct {
	config TokenConfig
}

// NewTokenService creates a new TokenService from explicit configuration.
func NewTokenService(config TokenConfig) (*TokenService, error) {
	if len(config.Secret) == 0 {
		return nil, errors.New("sec: token signing secret must not be empty")
	}
	if config.TTL == 0 {
		return nil, errors.New("sec: token TTL must be configured")
	}
	return &TokenService{config: config}, nil
}

// Issue creates a signed session token binding the principal id to an
// expiry derived from the configured TTL.
func (service *TokenService) Issue(userID string) (string, error) {
	currentTime := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.config.TTL)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.config.Secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and expiry of a token string and returns its
// claims.
//
// Failures are classified as [ErrTokenMalformed], [ErrTokenSignature] or
// [ErrTokenExpired] so callers can respond with precise reasons.
func (service *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.config.Secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// TTL exposes the configured token lifetime, used by handlers to align the
// session cookie's expiry with the token's.
func (service *TokenService) TTL() time.Duration {
	return service.config.TTL
}
