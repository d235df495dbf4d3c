// Copyright (c) 2026 QuickShift. All rights reserved.

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and logic for
authentication, authorization, and account lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
external dependencies and encapsulate all business rules related to user
identity.
*/
package auth

import (
	"time"

	"github.com/quickshift/quickshift/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the QuickShift marketplace.
type User struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // Explicitly omitted from JSON for security.
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Roles        sec.RoleSet `json:"roles"`
	Skills       []string    `json:"skills"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Session represents one live refresh-token lifeline.
//
// # Invariant
//
// At most one Session exists per (UserID, DeviceName) pair. Creating a new
// one for a device replaces any prior session for that same pair.
type Session struct {
	UserID     string    `json:"user_id"`
	TokenHash  string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	DeviceName string    `json:"device_name"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldSkills      = "skills"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
	FieldMessage     = "message"
)
