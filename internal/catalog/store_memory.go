// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/leafmark/leafmark/internal/platform/apperr"
	"github.com/leafmark/leafmark/pkg/fold"
)

//go:embed seed.json
var seedData []byte

// MemoryBookRepository implements BookRepository over an immutable in-memory
// collection.
//
// # Concurrency
//
// The collection is hydrated once at construction and never mutated
// afterwards, so lookups need no locking.
type MemoryBookRepository struct {
	books  []*Book
	byISBN map[string]*Book

	// foldedTitle and foldedAuthor are precomputed so Search never refolds
	// the catalogue on every request.
	foldedTitle  map[string]string
	foldedAuthor map[string]string
}

// NewMemoryBookRepository hydrates the catalogue from the embedded fixture.
func NewMemoryBookRepository() (*MemoryBookRepository, error) {
	return newMemoryBookRepository(seedData)
}

func newMemoryBookRepository(payload []byte) (*MemoryBookRepository, error) {
	var books []*Book
	if err := json.Unmarshal(payload, &books); err != nil {
		return nil, fmt.Errorf("catalog_seed_unmarshal_failed: %w", err)
	}

	repository := &MemoryBookRepository{
		books:        books,
		byISBN:       make(map[string]*Book, len(books)),
		foldedTitle:  make(map[string]string, len(books)),
		foldedAuthor: make(map[string]string, len(books)),
	}

	for _, book := range books {
		if _, exists := repository.byISBN[book.ISBN]; exists {
			return nil, fmt.Errorf("catalog_seed_duplicate_isbn: %s", book.ISBN)
		}
		repository.byISBN[book.ISBN] = book
		repository.foldedTitle[book.ISBN] = fold.Casefold(book.Title)
		repository.foldedAuthor[book.ISBN] = fold.Casefold(book.Author)
	}

	// Stable alphabetical order for listings.
	sort.Slice(repository.books, func(i, j int) bool {
		return repository.books[i].Title < repository.books[j].Title
	})

	return repository, nil
}

/*
List returns every book in the catalogue, ordered by title.

Returns:
  - []*Book: Copies of the catalogued entities
  - error: Reserved for the interface; always nil here
*/
func (repository *MemoryBookRepository) List(context context.Context) ([]*Book, error) {
	result := make([]*Book, 0, len(repository.books))
	for _, book := range repository.books {
		clone := *book
		result = append(result, &clone)
	}
	return result, nil
}

/*
FindByISBN returns the book with the given ISBN.

Parameters:
  - context: context.Context
  - isbn: string

Returns:
  - *Book: Copy of the catalogued entity
  - error: apperr.NotFound when the catalogue has no such book
*/
func (repository *MemoryBookRepository) FindByISBN(context context.Context, isbn string) (*Book, error) {
	book, ok := repository.byISBN[isbn]
	if !ok {
		return nil, apperr.NotFound("Book")
	}

	clone := *book
	return &clone, nil
}

/*
Search returns books matching the query against title or author.

Description: Matching compares folded forms, so case and accents never
matter. An empty query matches the whole catalogue.

Parameters:
  - context: context.Context
  - query: string

Returns:
  - []*Book: Matching books, ordered by title
  - error: Reserved for the interface; always nil here
*/
func (repository *MemoryBookRepository) Search(context context.Context, query string) ([]*Book, error) {
	folded := fold.Casefold(query)

	result := make([]*Book, 0)
	for _, book := range repository.books {
		if !matchesFolded(repository.foldedTitle[book.ISBN], folded) &&
			!matchesFolded(repository.foldedAuthor[book.ISBN], folded) {
			continue
		}

		clone := *book
		result = append(result, &clone)
	}

	return result, nil
}

// matchesFolded is a substring check over two already-folded strings.
func matchesFolded(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
