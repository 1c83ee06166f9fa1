// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

/*
Package catalog implements the book catalogue.

The catalogue is immutable reference data hydrated from an embedded fixture:
browsing and search are anonymous, and nothing in the running process can
add or remove books.

Architecture:

  - Service: Orchestrates lookups and search (List, GetBook, Search).
  - Repository: Immutable in-memory collection with precomputed fold keys.
*/
package catalog

import "context"

// # Service Layer

// Service orchestrates the business logic for the book catalogue.
type Service struct {
	bookRepository BookRepository
}

// NewService constructs a new catalog [Service] with its repository.
func NewService(bookRepo BookRepository) *Service {
	return &Service{bookRepository: bookRepo}
}

/*
ListBooks retrieves the whole catalogue.

Parameters:
  - context: context.Context

Returns:
  - []*Book: Every catalogued book, ordered by title
  - error: Repository level errors
*/
func (service *Service) ListBooks(context context.Context) ([]*Book, error) {
	return service.bookRepository.List(context)
}

/*
GetBook fetches a single book by ISBN.

Parameters:
  - context: context.Context
  - isbn: string

Returns:
  - *Book: The hydrated entity
  - error: apperr.NotFound if no match is found
*/
func (service *Service) GetBook(context context.Context, isbn string) (*Book, error) {
	return service.bookRepository.FindByISBN(context, isbn)
}

/*
Search retrieves books matching a free-text query against title or author.

Description: Matching is case- and accent-insensitive substring containment.
No relevance ranking is applied; results keep catalogue order.

Parameters:
  - context: context.Context
  - query: string

Returns:
  - []*Book: Matching books
  - error: Repository level errors
*/
func (service *Service) Search(context context.Context, query string) ([]*Book, error) {
	return service.bookRepository.Search(context, query)
}

/*
Exists reports whether the catalogue knows the given ISBN.

Description: This is the narrow contract other domains (reviews) consult
before attaching data to a book.
*/
func (service *Service) Exists(context context.Context, isbn string) bool {
	_, err := service.bookRepository.FindByISBN(context, isbn)
	return err == nil
}
