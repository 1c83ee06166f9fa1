// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package review

import (
	"context"
	"sync"
	"time"

	"github.com/leafmark/leafmark/internal/platform/apperr"
)

// MemoryReviewRepository implements ReviewRepository with an in-process map.
//
// # Concurrency
//
// One RWMutex guards the whole collection: writers take the exclusive lock,
// so concurrent Upserts of the same (ISBN, Username) pair serialize into a
// last-write-wins sequence and readers behind the shared lock always see a
// fully applied write.
type MemoryReviewRepository struct {
	mu sync.RWMutex

	// reviews maps ISBN -> username -> review.
	reviews map[string]map[string]*Review
}

// NewMemoryReviewRepository creates an empty in-memory ReviewRepository.
func NewMemoryReviewRepository() *MemoryReviewRepository {
	return &MemoryReviewRepository{
		reviews: make(map[string]map[string]*Review),
	}
}

/*
Upsert inserts or replaces the review for (entry.ISBN, entry.Username).

Description: A replace keeps the original CreatedAt and refreshes UpdatedAt;
a first write sets both. Replaying the same text converges on one stored
value.

Parameters:
  - context: context.Context
  - entry: *Review

Returns:
  - *Review: Copy of the stored state
  - error: Reserved for the interface; always nil here
*/
func (repository *MemoryReviewRepository) Upsert(context context.Context, entry *Review) (*Review, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	byUser := repository.reviews[entry.ISBN]
	if byUser == nil {
		byUser = make(map[string]*Review)
		repository.reviews[entry.ISBN] = byUser
	}

	currentTime := time.Now()
	stored := &Review{
		ISBN:      entry.ISBN,
		Username:  entry.Username,
		Text:      entry.Text,
		CreatedAt: currentTime,
		UpdatedAt: currentTime,
	}

	// A replace keeps the original creation timestamp.
	if previous, ok := byUser[entry.Username]; ok {
		stored.CreatedAt = previous.CreatedAt
	}

	byUser[entry.Username] = stored

	clone := *stored
	return &clone, nil
}

/*
Delete removes the review keyed by (isbn, username).

Parameters:
  - context: context.Context
  - isbn: string
  - username: string

Returns:
  - error: apperr.NotFound when no such review exists
*/
func (repository *MemoryReviewRepository) Delete(context context.Context, isbn, username string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	byUser := repository.reviews[isbn]
	if _, ok := byUser[username]; !ok {
		return apperr.NotFound("Review")
	}

	delete(byUser, username)
	if len(byUser) == 0 {
		delete(repository.reviews, isbn)
	}

	return nil
}

/*
ListByISBN returns every review of the given book keyed by author.

Description: Returns copies so callers can never mutate stored state. An
unreviewed book yields an empty, non-nil map.

Parameters:
  - context: context.Context
  - isbn: string

Returns:
  - map[string]*Review: Author username -> review
  - error: Reserved for the interface; always nil here
*/
func (repository *MemoryReviewRepository) ListByISBN(context context.Context, isbn string) (map[string]*Review, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	byUser := repository.reviews[isbn]
	result := make(map[string]*Review, len(byUser))

	for username, stored := range byUser {
		clone := *stored
		result[username] = &clone
	}

	return result, nil
}
