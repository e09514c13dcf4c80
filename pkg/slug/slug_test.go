// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wayfarer-travel/wayfarer/pkg/slug"
)

/*
TestFrom covers lowercase conversion, accent folding, and hyphen cleanup.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "The Forest Hiker", "the-forest-hiker"},
		{"already_slugged", "the-sea-explorer", "the-sea-explorer"},
		{"accents_folded", "Café Crème Tour", "cafe-creme-tour"},
		{"punctuation_stripped", "Rock & Roll: The Tour!", "rock-roll-the-tour"},
		{"collapsed_hyphens", "A  --  B", "a-b"},
		{"trimmed_edges", "  Snowy Peaks  ", "snowy-peaks"},
		{"digits_kept", "Top 5 Alps 2026", "top-5-alps-2026"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
