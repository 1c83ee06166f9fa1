// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafmark/leafmark/internal/catalog"
	"github.com/leafmark/leafmark/internal/platform/apperr"
)

func newService(t *testing.T) *catalog.Service {
	t.Helper()

	repository, err := catalog.NewMemoryBookRepository()
	require.NoError(t, err)
	return catalog.NewService(repository)
}

/*
TestListBooks verifies the embedded fixture hydrates and listings come back
ordered by title.
*/
func TestListBooks(t *testing.T) {
	service := newService(t)

	books, err := service.ListBooks(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, books)

	for i := 1; i < len(books); i++ {
		assert.LessOrEqual(t, books[i-1].Title, books[i].Title)
	}
}

/*
TestGetBook covers the known and unknown ISBN paths.
*/
func TestGetBook(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	book, err := service.GetBook(ctx, "978-0385474542")
	require.NoError(t, err)
	assert.Equal(t, "Things Fall Apart", book.Title)
	assert.Equal(t, "Chinua Achebe", book.Author)

	_, err = service.GetBook(ctx, "000-0000000000")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestSearch verifies case- and accent-insensitive substring matching over
title and author.
*/
func TestSearch(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		query     string
		wantTitle string
	}{
		{"title_case_insensitive", "pride AND", "Pride and Prejudice"},
		{"author_substring", "achebe", "Things Fall Apart"},
		{"accent_folded_author", "garcia marquez", "One Hundred Years of Solitude"},
		{"accent_in_query", "Gárcía", "One Hundred Years of Solitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := service.Search(ctx, tt.query)
			require.NoError(t, err)
			require.Len(t, books, 1)
			assert.Equal(t, tt.wantTitle, books[0].Title)
		})
	}
}

/*
TestSearch_EmptyAndMiss verifies the degenerate queries: empty returns the
whole catalogue, a miss returns an empty (non-nil) slice.
*/
func TestSearch_EmptyAndMiss(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	all, err := service.ListBooks(ctx)
	require.NoError(t, err)

	everything, err := service.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, everything, len(all))

	nothing, err := service.Search(ctx, "zzzzzz-no-such-book")
	require.NoError(t, err)
	require.NotNil(t, nothing)
	assert.Empty(t, nothing)
}

/*
TestExists verifies the narrow contract the review domain consults.
*/
func TestExists(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	assert.True(t, service.Exists(ctx, "978-0385474542"))
	assert.False(t, service.Exists(ctx, "000-0000000000"))
}
