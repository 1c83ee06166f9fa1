// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package catalog

// # Entity Definitions

// Book represents one catalogued publication.
//
// # Identity
//
// Books are keyed by ISBN throughout the platform. Reviews are a separate
// aggregate and are never embedded here.
type Book struct {
	ISBN          string `json:"isbn"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedYear int    `json:"published_year"`
	Language      string `json:"language"`
}

// # Field Constants

// JSON field names shared between query parsing and response payloads.
const (
	FieldISBN  = "isbn"
	FieldQuery = "q"
	FieldBooks = "books"
	FieldTotal = "total"
)
