// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package review_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafmark/leafmark/internal/platform/apperr"
	"github.com/leafmark/leafmark/internal/review"
)

// stubCatalog knows a fixed set of ISBNs.
type stubCatalog struct {
	known map[string]bool
}

func (catalog *stubCatalog) Exists(_ context.Context, isbn string) bool {
	return catalog.known[isbn]
}

func newService(isbns ...string) *review.Service {
	known := make(map[string]bool, len(isbns))
	for _, isbn := range isbns {
		known[isbn] = true
	}
	return review.NewService(review.NewMemoryReviewRepository(), &stubCatalog{known: known})
}

/*
TestUpsert_ReplacesInPlace verifies the one-review-per-reader-per-book rule:
a repeat write replaces the text instead of accumulating entries.
*/
func TestUpsert_ReplacesInPlace(t *testing.T) {
	service := newService("978-0385474542")
	ctx := context.Background()

	first, err := service.Upsert(ctx, "978-0385474542", "alice", "A classic.")
	require.NoError(t, err)
	require.Equal(t, "A classic.", first.Text)

	second, err := service.Upsert(ctx, "978-0385474542", "alice", "On reflection, a masterpiece.")
	require.NoError(t, err)
	assert.Equal(t, "On reflection, a masterpiece.", second.Text)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	reviews, err := service.ListFor(ctx, "978-0385474542")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "On reflection, a masterpiece.", reviews["alice"].Text)
}

/*
TestUpsert_UnknownBook verifies that reviews never attach to ISBNs the
catalogue does not know.
*/
func TestUpsert_UnknownBook(t *testing.T) {
	service := newService("978-0385474542")

	_, err := service.Upsert(context.Background(), "000-0000000000", "alice", "Ghost book.")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
	assert.Contains(t, ae.Message, "Book")
}

/*
TestOwnership_Isolation verifies that one reader's mutations never touch
another reader's review of the same book.
*/
func TestOwnership_Isolation(t *testing.T) {
	service := newService("978-0385474542")
	ctx := context.Background()

	_, err := service.Upsert(ctx, "978-0385474542", "alice", "Loved it.")
	require.NoError(t, err)
	_, err = service.Upsert(ctx, "978-0385474542", "bob", "Not for me.")
	require.NoError(t, err)

	// Bob deletes his review; alice's stays.
	require.NoError(t, service.Delete(ctx, "978-0385474542", "bob"))

	reviews, err := service.ListFor(ctx, "978-0385474542")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Loved it.", reviews["alice"].Text)

	// Bob has nothing left to delete.
	err = service.Delete(ctx, "978-0385474542", "bob")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Contains(t, apperr.As(err).Message, "Review")
}

/*
TestDelete_Errors verifies that an unknown book and a missing review report
distinct not-found conditions.
*/
func TestDelete_Errors(t *testing.T) {
	service := newService("978-0385474542")
	ctx := context.Background()

	tests := []struct {
		name    string
		isbn    string
		message string
	}{
		{"unknown_book", "000-0000000000", "Book"},
		{"no_review", "978-0385474542", "Review"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Delete(ctx, tt.isbn, "alice")
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "NOT_FOUND", ae.Code)
			assert.Contains(t, ae.Message, tt.message)
		})
	}
}

/*
TestListFor_Empty verifies that a known but unreviewed book yields an empty
map, never an error or nil.
*/
func TestListFor_Empty(t *testing.T) {
	service := newService("978-0385474542")

	reviews, err := service.ListFor(context.Background(), "978-0385474542")
	require.NoError(t, err)
	require.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

/*
TestUpsert_ConcurrentWritersConverge hammers one (isbn, username) pair from
many goroutines and verifies the store converges on exactly one of the
written values.
*/
func TestUpsert_ConcurrentWritersConverge(t *testing.T) {
	service := newService("978-0385474542")
	ctx := context.Background()

	const writers = 32

	written := make(map[string]bool, writers)
	var group sync.WaitGroup

	for index := 0; index < writers; index++ {
		text := fmt.Sprintf("draft %d", index)
		written[text] = true

		group.Add(1)
		go func() {
			defer group.Done()
			_, err := service.Upsert(ctx, "978-0385474542", "alice", text)
			assert.NoError(t, err)
		}()
	}

	group.Wait()

	reviews, err := service.ListFor(ctx, "978-0385474542")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.True(t, written[reviews["alice"].Text])
}
