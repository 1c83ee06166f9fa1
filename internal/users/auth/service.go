// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

/*
Package auth implements the core identity and access management system.

It handles user registration, secure password hashing, and the session
registry that binds connected clients to signed, time-bounded access tokens.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Resolve, Logout).
  - Repository: Abstracted interfaces for user accounts and session bindings
    (in-memory by default, Redis when configured).
  - Security: Leverages bcrypt hashing and RSA-signed JWTs.

The package ensures that identity data remains consistent and secure
throughout the platform's lifecycle.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leafmark/leafmark/internal/platform/apperr"
	"github.com/leafmark/leafmark/internal/platform/sec"
	"github.com/leafmark/leafmark/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and verifying security tokens.
type TokenProvider interface {
	// IssueAccessToken creates a signed JWT string for the given subject.
	//
	// # Parameters
	//   - username: The subject of the token.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	IssueAccessToken(username string, timeToLive time.Duration) (string, error)

	// VerifyToken checks signature and expiry of a JWT string.
	//
	// # Returns
	//   - The embedded claims on success.
	//   - sec.ErrTokenExpired or sec.ErrTokenInvalid on failure.
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login, or
// session resolution logic must be reviewed carefully.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	tokenProvider     TokenProvider
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(userRepo UserRepository, sessionRepo SessionRepository, tokenProv TokenProvider) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		tokenProvider:     tokenProv,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrollment of a new member, handling password hashing and
case-insensitive username uniqueness.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity.
	user := &User{
		Username:     input.Username,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now(),
	}

	// Persist the user. The repository enforces uniqueness and returns a
	// client-safe Conflict err for duplicates.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	Session     *Session
	AccessToken string
	User        *User
}

/*
Login validates user credentials and establishes a session.

Description: Verifies identity via constant-time password comparison, issues
a signed access token, and binds it to a brand-new session. A prior session
for the same user stays alive — concurrent sessions are permitted.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// Exact, case-sensitive username lookup.
	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Generate the access token bound to this session
	accessToken, err := service.tokenProvider.IssueAccessToken(user.Username, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Create and persist the session binding
	currentTime := time.Now()
	session := &Session{
		ID:        uuid.New(),
		Username:  user.Username,
		Token:     accessToken,
		ExpiresAt: currentTime.Add(SessionTTL),
		CreatedAt: currentTime,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		Session:     session,
		AccessToken: accessToken,
		User:        user,
	}, nil
}

// # Session Resolution

/*
Resolve maps a session id to the verified identity that established it.

Description: Loads the binding, verifies the bound token's signature and
expiry, and cross-checks that the token subject still matches the session's
username. All review mutations gate on the username returned here.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - string: The verified username
  - err: apperr.Unauthorized for missing/expired/forged sessions
*/
func (service *Service) Resolve(context context.Context, sessionID string) (string, error) {

	// A caller that never logged in has no binding at all.
	if sessionID == "" {
		return "", apperr.Unauthorized("Authentication required")
	}

	session, err := service.sessionRepository.FindByID(context, sessionID)
	if err != nil {
		return "", apperr.Unauthorized("Session not found or expired")
	}

	// Re-verify the bound token on every resolution. Verification is a pure
	// function of the token and the signing key, so this adds no state.
	claims, err := service.tokenProvider.VerifyToken(session.Token)
	if err != nil {
		// A dead token makes the binding useless: reap it eagerly.
		_ = service.sessionRepository.Delete(context, sessionID)

		if errors.Is(err, sec.ErrTokenExpired) {
			return "", apperr.Unauthorized("Session expired")
		}
		return "", apperr.Unauthorized("Invalid session token")
	}

	// Invariant: the session's username equals the token's subject. A
	// mismatch means the registry is corrupted, not that the caller erred.
	if claims.Username != session.Username {
		return "", apperr.Internal(fmt.Errorf(
			"auth_session_identity_mismatch: session=%q token=%q", session.Username, claims.Username))
	}

	return session.Username, nil
}

/*
Logout removes the session binding.

Description: Idempotent — logging out twice, or with a session that never
existed, is not an error. The access token itself stays valid until expiry
(verification is stateless); only the cookie-carried session dies here.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - err: Storage failures only
*/
func (service *Service) Logout(context context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := service.sessionRepository.Delete(context, sessionID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}
