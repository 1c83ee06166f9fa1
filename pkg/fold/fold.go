// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

// Package fold normalizes arbitrary Unicode strings for case-insensitive
// matching.
//
// # Usage
//
// Catalog search precomputes [Casefold] over its corpus and folds each
// query once, so "BRONTË" matches "brontë" and "bronte" alike. The fold is
// pure string mangling with no locale state.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Casefold converts an arbitrary Unicode string into a canonical lowercase
// form suitable for substring comparison.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
func Casefold(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	// 2. Lowercase
	return strings.ToLower(result)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
