// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leafmark/leafmark/internal/platform/apperr"
	"github.com/leafmark/leafmark/internal/platform/constants"
)

// RedisSessionRepository implements SessionRepository using Redis.
//
// Sessions are volatile TTL-bound data, so they map directly onto Redis
// expiring keys: the binding vanishes on its own when the bound token would
// have expired anyway. Use this backend when several API replicas must see
// the same sessions.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a new Redis-backed SessionRepository.
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

// redisSession is the storage shape for a Session. The API entity hides the
// bound token from JSON, but the repository must round-trip it.
type redisSession struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

/*
Create persists a new session binding with a TTL matching its expiry.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Marshalling or execution errors
*/
func (repository *RedisSessionRepository) Create(context context.Context, session *Session) error {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixSession, session.ID)

	payload, err := json.Marshal(redisSession{
		ID:        session.ID,
		Username:  session.Username,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	// Let Redis expire the binding exactly when the bound token dies.
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := repository.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
FindByID returns the session with the given id.

Description: Returns apperr.NotFound if the binding is absent or expired.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *Session: Hydrated entity
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisSessionRepository) FindByID(context context.Context, sessionID string) (*Session, error) {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixSession, sessionID)

	// Get the session from Redis
	payload, err := repository.client.Get(context, key).Bytes()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	var stored redisSession
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("redis_session_unmarshal_failed: %w", err)
	}

	return &Session{
		ID:        stored.ID,
		Username:  stored.Username,
		Token:     stored.Token,
		ExpiresAt: stored.ExpiresAt,
		CreatedAt: stored.CreatedAt,
	}, nil
}

/*
Delete removes the session binding from Redis. Idempotent.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisSessionRepository) Delete(context context.Context, sessionID string) error {

	// Use constants for key prefix
	key := fmt.Sprintf("%s%s", constants.RedisPrefixSession, sessionID)

	// Delete the session from Redis
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}
