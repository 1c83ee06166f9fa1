// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/leafmark/leafmark/internal/platform/apperr"
)

// # In-Memory User Repository

// MemoryUserRepository implements UserRepository with process-local state.
//
// Accounts live for the lifetime of the process; durable storage is out of
// scope for this service.
type MemoryUserRepository struct {
	mu sync.RWMutex

	// users is keyed by the exact username.
	users map[string]*User

	// foldedIndex maps lowercase usernames to their exact form, enforcing
	// case-insensitive uniqueness at registration time.
	foldedIndex map[string]string
}

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:       make(map[string]*User),
		foldedIndex: make(map[string]string),
	}
}

/*
Create persists a brand-new user account.

Description: Returns apperr.Conflict when any casing of the username is
already registered.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Conflict on duplicate usernames
*/
func (repository *MemoryUserRepository) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	folded := strings.ToLower(user.Username)
	if _, exists := repository.foldedIndex[folded]; exists {
		return apperr.Conflict("Username is already taken")
	}

	stored := *user
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	repository.users[stored.Username] = &stored
	repository.foldedIndex[folded] = stored.Username
	return nil
}

/*
FindByUsername returns the account with the given exact username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Copy of the stored entity
  - error: apperr.NotFound when no such account exists
*/
func (repository *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	user, found := repository.users[username]
	if !found {
		return nil, apperr.NotFound("User")
	}

	copied := *user
	return &copied, nil
}

// # In-Memory Session Repository

// MemorySessionRepository implements SessionRepository with a [sync.Map].
//
// # Why sync.Map?
//
// Session ids are disjoint keys written once, read many times, and deleted
// once — the access pattern sync.Map is built for. Login, Resolve, and
// Logout on different sessions never contend on a shared lock, and
// operations on one id are linearized by the map itself.
type MemorySessionRepository struct {
	sessions sync.Map // session id -> *Session
}

// NewMemorySessionRepository creates an empty in-memory session repository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{}
}

/*
Create persists a new session binding.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Always nil for the in-memory backend
*/
func (repository *MemorySessionRepository) Create(_ context.Context, session *Session) error {
	stored := *session
	repository.sessions.Store(stored.ID, &stored)
	return nil
}

/*
FindByID returns the session with the given id.

Description: A binding past its expiry is treated as absent and reaped on
the spot, so abandoned sessions do not accumulate.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *Session: Copy of the stored entity
  - error: apperr.NotFound when no live binding exists
*/
func (repository *MemorySessionRepository) FindByID(_ context.Context, sessionID string) (*Session, error) {
	value, found := repository.sessions.Load(sessionID)
	if !found {
		return nil, apperr.NotFound("Session")
	}

	session := value.(*Session)
	if time.Now().After(session.ExpiresAt) {
		repository.sessions.Delete(sessionID)
		return nil, apperr.NotFound("Session")
	}

	copied := *session
	return &copied, nil
}

/*
Delete removes the session binding. Idempotent.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Always nil for the in-memory backend
*/
func (repository *MemorySessionRepository) Delete(_ context.Context, sessionID string) error {
	repository.sessions.Delete(sessionID)
	return nil
}
