// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

/*
Package review implements per-user book reviews.

Each reader holds at most one review per book, and only the author of a
review may replace or remove it. Ownership is always derived from the
caller's resolved identity, never from request payloads.

Architecture:

  - Service: Orchestrates business logic (Upsert, Delete, ListFor).
  - Repository: In-memory collection with serialized mutations.
  - Catalog: Consulted so reviews can never attach to unknown books.
*/
package review

import (
	"context"

	"github.com/leafmark/leafmark/internal/platform/apperr"
)

// # Contracts

// BookCatalog is the slice of the catalogue the review domain needs: just
// enough to refuse reviews of books that do not exist.
type BookCatalog interface {
	// Exists reports whether a book with the given ISBN is in the catalogue.
	Exists(ctx context.Context, isbn string) bool
}

// # Service Layer

// Service orchestrates the business logic for book reviews.
type Service struct {
	reviewRepository ReviewRepository
	catalog          BookCatalog
}

// NewService constructs a new review [Service] with its dependencies.
func NewService(reviewRepo ReviewRepository, catalog BookCatalog) *Service {
	return &Service{
		reviewRepository: reviewRepo,
		catalog:          catalog,
	}
}

/*
Upsert writes or replaces the caller's review of a book.

Description: The username must be the caller's resolved identity; the
handler layer guarantees this. Writing twice replaces the text in place,
keyed by (isbn, username).

Parameters:
  - context: context.Context
  - isbn: string
  - username: string (resolved caller identity)
  - text: string (pre-validated)

Returns:
  - *Review: The stored review
  - error: apperr.NotFound("Book") for unknown ISBNs
*/
func (service *Service) Upsert(context context.Context, isbn, username, text string) (*Review, error) {

	// Reviews never attach to books the catalogue does not know.
	if !service.catalog.Exists(context, isbn) {
		return nil, apperr.NotFound("Book")
	}

	return service.reviewRepository.Upsert(context, &Review{
		ISBN:     isbn,
		Username: username,
		Text:     text,
	})
}

/*
Delete removes the caller's review of a book.

Description: Removal is keyed by (isbn, username) — a caller can only ever
delete their own review, because the username comes from session
resolution. The book check runs first so an unknown ISBN reports
NotFound("Book") rather than NotFound("Review").

Parameters:
  - context: context.Context
  - isbn: string
  - username: string (resolved caller identity)

Returns:
  - error: apperr.NotFound("Book") or apperr.NotFound("Review")
*/
func (service *Service) Delete(context context.Context, isbn, username string) error {
	if !service.catalog.Exists(context, isbn) {
		return apperr.NotFound("Book")
	}

	return service.reviewRepository.Delete(context, isbn, username)
}

/*
ListFor returns every review of a book, keyed by author username.

Description: A book with no reviews yields an empty map, not an error.
Unknown ISBNs are still NotFound("Book").

Parameters:
  - context: context.Context
  - isbn: string

Returns:
  - map[string]*Review: Author username -> review
  - error: apperr.NotFound("Book") for unknown ISBNs
*/
func (service *Service) ListFor(context context.Context, isbn string) (map[string]*Review, error) {
	if !service.catalog.Exists(context, isbn) {
		return nil, apperr.NotFound("Book")
	}

	return service.reviewRepository.ListByISBN(context, isbn)
}
