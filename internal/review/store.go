// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package review

import "context"

// ReviewRepository defines the data access contract for the review domain.
//
// # Architecture
//
// The interface lives here because the service layer (the consumer) defines
// what it needs. The in-memory implementation in store_memory.go is the only
// backend: reviews are deliberately volatile.
//
// # Consistency
//
// Implementations must serialize mutations and guarantee read-after-write:
// a ListByISBN issued after a successful Upsert observes that write.
type ReviewRepository interface {
	// Upsert inserts the review or replaces the existing one for the same
	// (ISBN, Username) pair. The replace is idempotent.
	Upsert(ctx context.Context, entry *Review) (*Review, error)

	// Delete removes the caller's review of the given book.
	//
	// It returns ErrNotFound if no such review exists.
	Delete(ctx context.Context, isbn, username string) error

	// ListByISBN returns every review of the given book keyed by author
	// username. An unknown or unreviewed book yields an empty map.
	ListByISBN(ctx context.Context, isbn string) (map[string]*Review, error)
}
