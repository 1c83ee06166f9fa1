// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

/*
Package ratelimit implements an exact sliding-window request limiter.

Unlike the coarse token-bucket guard in front of the whole API, this limiter
retains the exact timestamps of a client's recent admissions, so the quota
is enforced over a true trailing window with no fixed-window boundary
bursts. It meters the async gateway.

Architecture:

  - Limiter: Owns the per-client windows and the reclamation loop.
  - clientWindow: One client's retained timestamps behind its own lock, so
    admissions for different clients never contend.
*/
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// # Types

// Decision is the outcome of one admission attempt.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// RetryAfter is how long the client must wait before the oldest retained
	// admission leaves the window. Zero when Allowed.
	RetryAfter time.Duration
}

// clientWindow holds one client's admission timestamps in ascending order.
type clientWindow struct {
	mu sync.Mutex

	// stamps are the admissions still inside the trailing window, oldest first.
	stamps []time.Time

	// dead marks a window reclaimed while a racing Admit already held a
	// pointer to it. Such an Admit must re-enter through the registry.
	dead bool
}

// Limiter enforces a per-client quota over a true sliding window.
//
// # Concurrency
//
// The registry lock (mu) only guards the clients map and is never held
// while a per-client lock is taken on the admission path, so admissions for
// distinct clients proceed in parallel. Reclamation takes the registry lock
// first and the client lock second; removal and admission for one client
// are therefore mutually exclusive.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu      sync.Mutex
	clients map[string]*clientWindow
}

// NewLimiter creates a sliding-window [Limiter] on the wall clock.
func NewLimiter(limit int, window time.Duration, logger *slog.Logger) *Limiter {
	return NewLimiterWithClock(limit, window, logger, time.Now)
}

// NewLimiterWithClock creates a [Limiter] with an injected clock so window
// arithmetic can be exercised deterministically.
func NewLimiterWithClock(limit int, window time.Duration, logger *slog.Logger, now func() time.Time) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		now:     now,
		logger:  logger,
		clients: make(map[string]*clientWindow),
	}
}

// # Admission

/*
Admit decides whether one request from the given client may proceed now.

Description: Timestamps that aged out of the trailing window are evicted
lazily on this path before the quota check. When the quota is full, the
denial carries the exact time until the oldest retained admission exits the
window.

Parameters:
  - clientID: string (usually the caller's IP)

Returns:
  - Decision: Allowed, or Denied with RetryAfter
*/
func (limiter *Limiter) Admit(clientID string) Decision {
	for {
		limiter.mu.Lock()
		window, ok := limiter.clients[clientID]
		if !ok {
			window = &clientWindow{}
			limiter.clients[clientID] = window
		}
		limiter.mu.Unlock()

		window.mu.Lock()
		if window.dead {
			// Reclaimed between the registry lookup and this lock; re-enter.
			window.mu.Unlock()
			continue
		}

		currentTime := limiter.now()
		window.evict(currentTime.Add(-limiter.window))

		if len(window.stamps) < limiter.limit {
			window.stamps = append(window.stamps, currentTime)
			window.mu.Unlock()
			return Decision{Allowed: true}
		}

		retryAfter := window.stamps[0].Add(limiter.window).Sub(currentTime)
		window.mu.Unlock()

		return Decision{Allowed: false, RetryAfter: retryAfter}
	}
}

// evict drops every stamp at or before the cutoff. Stamps are ascending, so
// this is a prefix cut.
func (window *clientWindow) evict(cutoff time.Time) {
	aged := 0
	for aged < len(window.stamps) && !window.stamps[aged].After(cutoff) {
		aged++
	}
	if aged > 0 {
		window.stamps = append(window.stamps[:0], window.stamps[aged:]...)
	}
}

// # Reclamation

/*
StartReclaimer launches the background sweep that removes fully-aged client
windows, so one-off clients do not pin memory forever.

Description: Runs until the context is cancelled. Each sweep snapshots the
key set first, then revisits every key under both locks, so a sweep can
never remove a window that a concurrent Admit is refilling.

Parameters:
  - ctx: context.Context (cancel to stop)
  - interval: time.Duration (sweep period)
*/
func (limiter *Limiter) StartReclaimer(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				reclaimed := limiter.reclaim()
				if reclaimed > 0 {
					limiter.logger.Debug("rate limiter reclaimed idle clients",
						slog.Int("reclaimed", reclaimed))
				}
			}
		}
	}()
}

// reclaim sweeps every known client once and returns how many windows were
// removed.
func (limiter *Limiter) reclaim() int {
	// Snapshot the key set; clients added after this point belong to the
	// next sweep.
	limiter.mu.Lock()
	keys := make([]string, 0, len(limiter.clients))
	for key := range limiter.clients {
		keys = append(keys, key)
	}
	limiter.mu.Unlock()

	cutoff := limiter.now().Add(-limiter.window)
	reclaimed := 0

	for _, key := range keys {
		limiter.mu.Lock()
		window, ok := limiter.clients[key]
		if !ok {
			limiter.mu.Unlock()
			continue
		}

		window.mu.Lock()
		window.evict(cutoff)
		if len(window.stamps) == 0 {
			window.dead = true
			delete(limiter.clients, key)
			reclaimed++
		}
		window.mu.Unlock()
		limiter.mu.Unlock()
	}

	return reclaimed
}

// clientCount reports how many client windows are currently retained.
func (limiter *Limiter) clientCount() int {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	return len(limiter.clients)
}
