// Copyright (c) 2026 QuickShift. All rights reserved.

/*
Package account handles user profile management and session security settings.

It provides functionalities for users to view and update their private identity
data, maintain their skill list, and manage their active device sessions.

# Architecture

  - Entities: SessionInfo (DTO).
  - Domain: This package depends on the auth package for the User entity.
  - Security: Provides session transparency and revocation mechanisms.
*/
package account

import (
	"context"
	"time"

	"github.com/quickshift/quickshift/internal/users/auth"
)

// # Domain Entities

// SessionInfo provides a safety-mapped view of an active user session.
// It omits sensitive token hashes for transport.
type SessionInfo struct {
	DeviceName string    `json:"device_name"` // e.g. "Chrome on Windows"
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	IsCurrent  bool      `json:"is_current"` // True if this session belongs to the current request
}

// PublicProfile is the reduced view of a user exposed to other members of the
// marketplace. It omits email and role internals.
type PublicProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Skills    []string  `json:"skills"`
	CreatedAt time.Time `json:"created_at"`
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete removes an account permanently.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	Delete(context context.Context, id string) error
}

// SessionRepository defines the visibility and revocation contract for user sessions.
type SessionRepository interface {
	/*
		ListByUser lists all live sessions for a user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []*auth.Session: List of active device sessions
		  - error: Retrieval errors
	*/
	ListByUser(context context.Context, userID string) ([]*auth.Session, error)

	/*
		Delete revokes the single session identified by its token hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - error: Revocation failures
	*/
	Delete(context context.Context, tokenHash string) error

	/*
		DeleteAllForUser terminates every session for a user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Revocation failures
	*/
	DeleteAllForUser(context context.Context, userID string) error
}
