// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and logic for
registration, authentication, and session lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Leafmark platform.
//
// Usernames are unique case-insensitively: "Alice" and "alice" cannot both
// register. Lookup at login time is exact (case-sensitive).
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
}

// Session binds a connected client to a currently valid access token.
//
// The session's Username always equals the token's subject; Resolve verifies
// the bound token on every call, so a session whose token has expired is
// dead even if the binding still exists.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Token     string    `json:"-"` // Bound access token. Omitted for security.
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
	FieldMessage     = "message"
)
