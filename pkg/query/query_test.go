// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package query_test

import (
	"net/url"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/pkg/query"
)

// testSchema mimics a catalog resource with a restricted allowlist.
var testSchema = query.Schema{
	Filterable: map[string]string{
		"price":      "price",
		"duration":   "duration",
		"difficulty": "difficulty",
		"gtx":        "gtx", // contains "gt" but is a plain field name
	},
	Sortable: map[string]string{
		"price":           "price",
		"ratings_average": "ratings_average",
	},
	Selectable: map[string]string{
		"name":  "name",
		"price": "price",
	},
	DefaultSort:    []query.SortKey{{Field: "ratings_average", Desc: true}},
	DefaultColumns: []string{"id", "name", "price"},
}

/*
TestParse_Filters covers operator suffix extraction and equality defaults.
*/
func TestParse_Filters(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		want    []query.Filter
		wantErr error
	}{
		{
			name:   "plain_equality",
			rawURL: "difficulty=easy",
			want:   []query.Filter{{Field: "difficulty", Op: query.OpEq, Value: "easy"}},
		},
		{
			name:   "gte_suffix",
			rawURL: "price[gte]=1000",
			want:   []query.Filter{{Field: "price", Op: query.OpGte, Value: "1000"}},
		},
		{
			name:   "multiple_filters_sorted_deterministically",
			rawURL: "price[lt]=3000&duration=5&price[gte]=1000",
			want: []query.Filter{
				{Field: "duration", Op: query.OpEq, Value: "5"},
				{Field: "price", Op: query.OpGte, Value: "1000"},
				{Field: "price", Op: query.OpLt, Value: "3000"},
			},
		},
		{
			// A field that merely contains an operator substring stays a
			// plain equality filter.
			name:   "operator_substring_in_field_name",
			rawURL: "gtx=7",
			want:   []query.Filter{{Field: "gtx", Op: query.OpEq, Value: "7"}},
		},
		{
			name:    "unknown_field_rejected",
			rawURL:  "admin=true",
			wantErr: query.ErrUnknownFilterField,
		},
		{
			// A bare top-level operator name is just an unknown field.
			name:    "bare_operator_key_rejected",
			rawURL:  "gt=5",
			wantErr: query.ErrUnknownFilterField,
		},
		{
			name:    "unknown_field_with_operator_rejected",
			rawURL:  "secret[gte]=1",
			wantErr: query.ErrUnknownFilterField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.rawURL)
			require.NoError(t, err)

			spec, err := query.Parse(values, testSchema)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.Filters)
		})
	}
}

/*
TestParse_ReservedKeys verifies page/sort/fields/limit never become filters.
*/
func TestParse_ReservedKeys(t *testing.T) {
	values, err := url.ParseQuery("page=2&limit=10&sort=price&fields=name&duration=5")
	require.NoError(t, err)

	spec, err := query.Parse(values, testSchema)
	require.NoError(t, err)

	require.Len(t, spec.Filters, 1)
	assert.Equal(t, "duration", spec.Filters[0].Field)

	assert.Equal(t, 2, spec.Page.Page)
	assert.Equal(t, 10, spec.Page.Limit)
	assert.Equal(t, []query.SortKey{{Field: "price"}}, spec.Sort)
	assert.Equal(t, []string{"name"}, spec.Fields)
}

/*
TestParse_Sort covers direction parsing, multi-key sorts and the default.
*/
func TestParse_Sort(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		want    []query.SortKey
		wantErr error
	}{
		{
			name:   "descending_prefix",
			rawURL: "sort=-price",
			want:   []query.SortKey{{Field: "price", Desc: true}},
		},
		{
			name:   "multi_key",
			rawURL: "sort=-ratings_average,price",
			want: []query.SortKey{
				{Field: "ratings_average", Desc: true},
				{Field: "price"},
			},
		},
		{
			name:   "default_sort_when_absent",
			rawURL: "",
			want:   []query.SortKey{{Field: "ratings_average", Desc: true}},
		},
		{
			name:    "unknown_sort_field",
			rawURL:  "sort=password_hash",
			wantErr: query.ErrUnknownSortField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.rawURL)
			require.NoError(t, err)

			spec, err := query.Parse(values, testSchema)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.Sort)
		})
	}
}

/*
TestParse_Projection verifies the allowlist gate on requested fields.
*/
func TestParse_Projection(t *testing.T) {
	values, err := url.ParseQuery("fields=name,price")
	require.NoError(t, err)

	spec, err := query.Parse(values, testSchema)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "price"}, spec.Fields)

	values, err = url.ParseQuery("fields=password_hash")
	require.NoError(t, err)

	_, err = query.Parse(values, testSchema)
	assert.ErrorIs(t, err, query.ErrUnknownProjectionField)
}

/*
TestBuild_SQL checks the generated SELECT statement end to end.
*/
func TestBuild_SQL(t *testing.T) {
	values, err := url.ParseQuery("price[gte]=1000&sort=-price&page=2&limit=10")
	require.NoError(t, err)

	spec, err := query.Parse(values, testSchema)
	require.NoError(t, err)

	base := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select().From("tours").Where(sq.Eq{"secret": false})

	sqlStr, args, err := query.Build(base, spec, testSchema).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, name, price FROM tours WHERE secret = $1 AND price >= $2 "+
			"ORDER BY price DESC LIMIT 10 OFFSET 10",
		sqlStr,
	)
	require.Len(t, args, 2)
	assert.Equal(t, false, args[0])
	// Numeric-looking parameters bind as numbers, not strings.
	assert.Equal(t, int64(1000), args[1])
}

/*
TestBuild_DefaultProjection verifies the default column set applies when no
fields parameter is present.
*/
func TestBuild_DefaultProjection(t *testing.T) {
	spec, err := query.Parse(url.Values{}, testSchema)
	require.NoError(t, err)

	base := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).Select().From("tours")
	sqlStr, _, err := query.Build(base, spec, testSchema).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sqlStr, "SELECT id, name, price FROM tours")
	assert.Contains(t, sqlStr, "ORDER BY ratings_average DESC")
	assert.Contains(t, sqlStr, "LIMIT 20 OFFSET 0")
}

/*
TestApplyFilters_CountQuery verifies filters alone can be applied to a
count builder without sort or pagination leaking in.
*/
func TestApplyFilters_CountQuery(t *testing.T) {
	values, err := url.ParseQuery("difficulty=easy&sort=-price&page=3")
	require.NoError(t, err)

	spec, err := query.Parse(values, testSchema)
	require.NoError(t, err)

	base := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("count(*)").From("tours")

	sqlStr, args, err := query.ApplyFilters(base, spec, testSchema).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT count(*) FROM tours WHERE difficulty = $1", sqlStr)
	assert.Equal(t, []any{"easy"}, args)
}
