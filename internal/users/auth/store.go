// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Create persists a brand-new user account.

		Description: Fails with apperr.Conflict when the username is already
		taken, compared case-insensitively.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Conflict or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByUsername returns the account with the given username.

		Description: The lookup is exact (case-sensitive) — only registration
		enforces case-insensitive uniqueness.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)
}

// # Session Data Access

// SessionRepository defines the data access contract for session bindings.
//
// # Concurrency
//
// Implementations must allow operations on different session ids to proceed
// independently; operations on the same id are linearized.
type SessionRepository interface {

	/*
		Create persists a new session binding for an authenticated login.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByID returns the session with the given id.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - *Session: Hydrated entity
		  - error: apperr.NotFound when no binding exists
	*/
	FindByID(context context.Context, sessionID string) (*Session, error)

	/*
		Delete removes the session binding. Deleting a session that does not
		exist is not an error (logout is idempotent).

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, sessionID string) error
}
