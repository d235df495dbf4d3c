// Copyright (c) 2026 QuickShift. All rights reserved.

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update merges mutable profile fields (names, skills, roles) onto the
		stored record. Identity fields (id, username, email) are never part
		of the write set, so an update can never change who a record is.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		Delete permanently removes a user account.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound when no matching record exists
	*/
	Delete(context context.Context, id string) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token
// sessions, keyed by the SHA-256 hash of the opaque token value.
type SessionRepository interface {

	/*
		Create persists a new session, REPLACING any live session for the
		same (user, device) pair. This is what enforces the one-lifeline-
		per-device invariant.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByTokenHash returns the live session matching the given token hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Session: Hydrated entity
		  - error: apperr.NotFound when absent or already expired
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	/*
		Delete removes one session by token hash (logout / rotation).

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - error: apperr.NotFound when no matching session exists
	*/
	Delete(context context.Context, tokenHash string) error

	/*
		DeleteAllForUser removes every session belonging to the user
		(account deletion, security nuking).

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Bulk deletion failures
	*/
	DeleteAllForUser(context context.Context, userID string) error

	/*
		ListByUser returns all live sessions for a user, for the account
		"active devices" view.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []*Session: Live sessions, possibly empty
		  - error: Retrieval failures
	*/
	ListByUser(context context.Context, userID string) ([]*Session, error)
}
