// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package catalog

import "context"

// BookRepository defines the data access contract for the catalogue.
//
// # Architecture
//
// The catalogue is read-mostly reference data, so the contract is pure
// lookup. The in-memory implementation in store_memory.go hydrates itself
// from an embedded fixture at construction time.
type BookRepository interface {
	// List returns every book in the catalogue in a stable order.
	List(ctx context.Context) ([]*Book, error)

	// FindByISBN returns the book with the given ISBN.
	//
	// It returns ErrNotFound if the catalogue has no such book.
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Search returns books whose title or author contains the query as a
	// case- and accent-insensitive substring.
	Search(ctx context.Context, query string) ([]*Book, error)
}
