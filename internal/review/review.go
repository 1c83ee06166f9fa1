// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package review

import "time"

// # Entity Definitions

// Review represents a single reader's opinion of one book.
//
// # Identity
//
// A review is keyed by the pair (ISBN, Username): each reader holds at most
// one review per book, and writing again replaces the previous text in
// place.
type Review struct {
	ISBN      string    `json:"isbn"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Constants

// JSON field names shared between validation details and response payloads.
const (
	FieldISBN    = "isbn"
	FieldText    = "text"
	FieldReviews = "reviews"
)

// MaxReviewLength caps review text at a generous essay-sized ceiling,
// measured in runes.
const MaxReviewLength = 2000
