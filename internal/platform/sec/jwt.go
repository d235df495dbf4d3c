// Copyright (c) 2026 QuickShift. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing,
// cookie integrity) from the domain logic. It acts as an Infrastructure
// service injected into the Application layer via the [TokenProvider]
// interface defined by the auth domain.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned by [TokenService.VerifyAccessToken] when the
// signature is valid but the token is past its expiry.
//
// Callers must be able to tell "expired" apart from "invalid": only an
// expired access token may be transparently refreshed by the authorization
// middleware. Any other verification failure is terminal.
var ErrTokenExpired = errors.New("sec: access token expired")

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding the UserID, Username, and Roles directly inside the JWT,
// the authorization middleware can reconstruct the active user context
// WITHOUT querying the database on every single API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string   `json:"uid"`
	Username string   `json:"unm"`
	Roles    []string `json:"rol"`
}

// RoleSet rebuilds the typed role set from the raw claim values.
func (c *AuthClaims) RoleSet() RoleSet {
	return RolesFromStrings(c.Roles)
}

// TokenService handles generation and verification of JWT access tokens
// using HS256 with a server-held secret.
type TokenService struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
}

// NewTokenService creates a new TokenService.
//
// # Parameters
//   - secret: The HMAC signing secret shared by all API instances.
//   - issuer: The 'iss' claim stamped on every token.
//   - accessTTL: Access token lifetime. Kept short (minutes, not hours) so
//     a leaked token has a narrow abuse window.
func NewTokenService(secret, issuer string, accessTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: signing secret must not be empty")
	}

	return &TokenService{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
	}, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (service *TokenService) AccessTokenTTL() time.Duration {
	return service.accessTTL
}

// GenerateAccessToken creates a new signed JWT access token for a user.
func (service *TokenService) GenerateAccessToken(userID, username string, roles RoleSet) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.accessTTL)),
		},
		UserID:   userID,
		Username: username,
		Roles:    roles.Strings(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyAccessToken checks the signature and validity of a JWT string.
//
// # Returns
//   - The decoded claims on success.
//   - [ErrTokenExpired] if the signature is valid but the token has expired.
//   - A generic error for any other structural or signature failure.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
