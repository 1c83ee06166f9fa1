// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/leafmark/leafmark/internal/platform/apperr"
	"github.com/leafmark/leafmark/internal/platform/constants"
	"github.com/leafmark/leafmark/internal/platform/ctxkey"
	"github.com/leafmark/leafmark/internal/platform/respond"
	"github.com/leafmark/leafmark/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify bearer tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `sec` package
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// SessionResolver resolves a cookie-carried session id to the identity of the
// user who established it. The registry verifies the session's bound token,
// so an expired or forged token surfaces here, not in the handlers.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (username string, err error)
}

// Authenticate establishes the caller's identity from either credential the
// client may present.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header; if present, verify
//     the JWT via [TokenVerifier] (stateless).
//  2. Otherwise check for the session cookie; if present, resolve it via
//     [SessionResolver] (registry-backed).
//  3. If neither is present, the request proceeds as anonymous.
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier, resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Bearer Token ───────────────────────────────────────────────
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
					respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
					return
				}

				claims, err := verifier.VerifyToken(parts[1])
				if err != nil {
					respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
					return
				}

				ctx := context.WithValue(request.Context(), ctxkey.KeyUser, claims)
				next.ServeHTTP(writer, request.WithContext(ctx))
				return
			}

			// ── 2. Session Cookie ─────────────────────────────────────────────
			cookie, err := request.Cookie(constants.SessionCookieName)
			if err == nil && cookie.Value != "" {
				username, err := resolver.Resolve(request.Context(), cookie.Value)
				if err != nil {
					respond.Error(writer, request, err)
					return
				}

				claims := &sec.AuthClaims{Username: username}
				ctx := context.WithValue(request.Context(), ctxkey.KeyUser, claims)
				next.ServeHTTP(writer, request.WithContext(ctx))
				return
			}

			// ── 3. Anonymous Access ───────────────────────────────────────────
			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}
