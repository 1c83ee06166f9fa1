// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package fold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leafmark/leafmark/pkg/fold"
)

/*
TestCasefold verifies accent stripping and lowercasing converge on one
canonical form regardless of the input's casing or diacritics.
*/
func TestCasefold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain_lowercase", "austen", "austen"},
		{"uppercase", "ACHEBE", "achebe"},
		{"accents_stripped", "García Márquez", "garcia marquez"},
		{"mixed_diacritics", "BRONTË", "bronte"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fold.Casefold(tt.input))
		})
	}
}

/*
TestCasefold_Idempotent verifies folding an already-folded string is a
no-op, which the catalogue relies on when comparing precomputed keys.
*/
func TestCasefold_Idempotent(t *testing.T) {
	once := fold.Casefold("Fyodor Dostoevsky, Братья Карамазовы")
	assert.Equal(t, once, fold.Casefold(once))
}
