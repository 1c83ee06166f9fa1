// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafmark/leafmark/internal/platform/apperr"
	"github.com/leafmark/leafmark/internal/platform/sec"
	"github.com/leafmark/leafmark/internal/users/auth"
	"github.com/leafmark/leafmark/pkg/uuid"
)

// newService wires an auth.Service against in-memory repositories and a
// throwaway RSA key.
func newService(t *testing.T) (*auth.Service, *auth.MemorySessionRepository, auth.TokenProvider) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tokens := sec.NewTokenServiceFromKeys(key, "leafmark.test")
	sessions := auth.NewMemorySessionRepository()
	service := auth.NewService(auth.NewMemoryUserRepository(), sessions, tokens)
	return service, sessions, tokens
}

func register(t *testing.T, service *auth.Service, username, password string) {
	t.Helper()
	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Password: password,
	})
	require.NoError(t, err)
}

/*
TestRegister_DuplicateUsername verifies case-insensitive uniqueness.
*/
func TestRegister_DuplicateUsername(t *testing.T) {
	service, _, _ := newService(t)
	register(t, service, "alice", "correct-horse-battery")

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "Alice",
		Password: "another-password-1",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestLogin_InvalidCredentials covers unknown users and wrong passwords; both
must collapse into the same generic Unauthorized outcome.
*/
func TestLogin_InvalidCredentials(t *testing.T) {
	service, _, _ := newService(t)
	register(t, service, "alice", "correct-horse-battery")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown_user", "bob", "whatever-password"},
		{"wrong_password", "alice", "not-the-password"},
		{"wrong_username_case", "ALICE", "correct-horse-battery"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), auth.LoginInput{
				Username: tt.username,
				Password: tt.password,
			})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "UNAUTHORIZED", ae.Code)
		})
	}
}

/*
TestLogin_Resolve_RoundTrip verifies the full session lifecycle: login
creates a binding, Resolve returns the verified identity, Logout kills it.
*/
func TestLogin_Resolve_RoundTrip(t *testing.T) {
	service, _, _ := newService(t)
	register(t, service, "alice", "correct-horse-battery")

	session, err := service.Login(context.Background(), auth.LoginInput{
		Username: "alice",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.Session.ID)

	// Resolve returns the subject bound at login.
	username, err := service.Resolve(context.Background(), session.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	// Logout removes the binding...
	require.NoError(t, service.Logout(context.Background(), session.Session.ID))

	_, err = service.Resolve(context.Background(), session.Session.ID)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// ...and doing it again is not an error.
	require.NoError(t, service.Logout(context.Background(), session.Session.ID))
}

/*
TestLogin_ConcurrentSessions verifies that a second login does not displace
the first session.
*/
func TestLogin_ConcurrentSessions(t *testing.T) {
	service, _, _ := newService(t)
	register(t, service, "alice", "correct-horse-battery")

	first, err := service.Login(context.Background(), auth.LoginInput{Username: "alice", Password: "correct-horse-battery"})
	require.NoError(t, err)
	second, err := service.Login(context.Background(), auth.LoginInput{Username: "alice", Password: "correct-horse-battery"})
	require.NoError(t, err)
	require.NotEqual(t, first.Session.ID, second.Session.ID)

	for _, id := range []string{first.Session.ID, second.Session.ID} {
		username, err := service.Resolve(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "alice", username)
	}
}

/*
TestResolve_NeverLoggedIn verifies that an empty or unknown session id is
Unauthenticated, never a not-found condition.
*/
func TestResolve_NeverLoggedIn(t *testing.T) {
	service, _, _ := newService(t)

	for _, id := range []string{"", uuid.New()} {
		_, err := service.Resolve(context.Background(), id)
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	}
}

/*
TestResolve_ExpiredToken verifies that a session bound to an expired token
resolves to Unauthorized and the dead binding is reaped.
*/
func TestResolve_ExpiredToken(t *testing.T) {
	service, sessions, tokens := newService(t)
	register(t, service, "alice", "correct-horse-battery")

	// Plant a session whose bound token is already past expiry.
	expiredToken, err := tokens.IssueAccessToken("alice", -1*time.Minute)
	require.NoError(t, err)

	planted := &auth.Session{
		ID:        uuid.New(),
		Username:  "alice",
		Token:     expiredToken,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	require.NoError(t, sessions.Create(context.Background(), planted))

	_, err = service.Resolve(context.Background(), planted.ID)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// The binding must be gone after the failed resolution.
	_, err = sessions.FindByID(context.Background(), planted.ID)
	require.Error(t, err)
}
