// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package pagination_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wayfarer-travel/wayfarer/pkg/pagination"
)

/*
TestFromValues covers defaulting and clamping of page/limit parameters.
*/
func TestFromValues(t *testing.T) {
	tests := []struct {
		name      string
		rawURL    string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "page=3&limit=50", 3, 50},
		{"limit_clamped_to_ceiling", "limit=500", 1, 100},
		{"limit_at_ceiling", "limit=100", 1, 100},
		{"zero_page_defaults", "page=0", 1, 20},
		{"negative_limit_defaults", "limit=-5", 1, 20},
		{"garbage_values_default", "page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.rawURL)
			assert.NoError(t, err)

			params := pagination.FromValues(values)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestParams_Offset verifies the page-to-offset arithmetic.
*/
func TestParams_Offset(t *testing.T) {
	tests := []struct {
		name string
		page int
		lim  int
		want int
	}{
		{"first_page", 1, 20, 0},
		{"second_page", 2, 10, 10},
		{"deep_page", 5, 25, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := pagination.Params{Page: tt.page, Limit: tt.lim}
			assert.Equal(t, tt.want, params.Offset())
		})
	}
}

/*
TestNewMeta verifies total-page rounding.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 10, 25)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, 25, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
}
