// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

// Package query turns raw URL query parameters into a constrained SQL
// SELECT statement.
//
// # Overview
//
// Listing endpoints accept filtering (`price[gte]=1000`), sorting
// (`sort=-ratings_average,price`), field projection (`fields=name,price`)
// and pagination (`page`, `limit`). This package parses those parameters
// into an immutable [Spec] and applies it onto a squirrel builder in a
// fixed stage order: filter, sort, projection, pagination. Each stage is
// optional and independently skippable.
//
// # Safety
//
// Every field name is resolved through a per-resource [Schema] allowlist.
// Operator rewriting only happens in the `field[op]` suffix position, so a
// field that merely contains "gt" or "lt" in its name can never be
// misinterpreted as a comparison.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/wayfarer-travel/wayfarer/pkg/pagination"
)

// Reserved parameter names that drive sorting, projection and pagination.
// They are stripped before filter extraction and never become filters.
const (
	ParamPage   = "page"
	ParamSort   = "sort"
	ParamFields = "fields"
	ParamLimit  = "limit"
)

// Op is a comparison operator accepted in filter parameters.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

var (
	// ErrUnknownFilterField is returned when a filter references a field
	// outside the schema allowlist.
	ErrUnknownFilterField = errors.New("query: unknown filter field")
	// ErrUnknownSortField is returned when a sort key references a field
	// outside the schema allowlist.
	ErrUnknownSortField = errors.New("query: unknown sort field")
	// ErrUnknownProjectionField is returned when a projection references a
	// field outside the schema allowlist.
	ErrUnknownProjectionField = errors.New("query: unknown projection field")
)

// operatorKey matches the `field[op]` shape, e.g. "price[gte]".
var operatorKey = regexp.MustCompile(`^([a-z][a-z0-9_]*)\[(gte|gt|lte|lt)\]$`)

// Filter is a single comparison clause against one field.
type Filter struct {
	Field string
	Op    Op
	Value string
}

// SortKey is one ordering term; Desc is inferred from a leading '-'.
type SortKey struct {
	Field string
	Desc  bool
}

// Spec is the parsed, immutable query customization for one request.
//
// # Lifecycle
//
// Constructed fresh per request by [Parse], applied exactly once by
// [Build], then discarded.
type Spec struct {
	Filters []Filter
	Sort    []SortKey
	Fields  []string
	Page    pagination.Params
}

// Schema declares which API fields of a resource may be filtered, sorted
// and projected, and how each maps to a database column.
type Schema struct {
	// Filterable maps API field name to column name for WHERE clauses.
	Filterable map[string]string
	// Sortable maps API field name to column name for ORDER BY.
	Sortable map[string]string
	// Selectable maps API field name to the column expression selected
	// when the client requests an explicit projection.
	Selectable map[string]string
	// DefaultSort is applied when the request carries no sort parameter.
	DefaultSort []SortKey
	// DefaultColumns is the projection used when the client requests none.
	// Internal-only columns are simply left out of this list.
	DefaultColumns []string
}

// Parse builds a [Spec] from decoded query parameters.
//
// Filter extraction strips the reserved keys first, then treats every
// remaining `field[op]` key as a comparison and every plain key as an
// equality filter. Unknown fields fail the whole request; filters are
// never partially applied.
func Parse(values url.Values, schema Schema) (Spec, error) {
	spec := Spec{Page: pagination.FromValues(values)}

	// Filter stage.
	for key := range values {
		switch key {
		case ParamPage, ParamSort, ParamFields, ParamLimit:
			continue
		}

		field, op := key, OpEq
		if match := operatorKey.FindStringSubmatch(key); match != nil {
			field, op = match[1], Op(match[2])
		}

		if _, ok := schema.Filterable[field]; !ok {
			return Spec{}, fmt.Errorf("%w: %q", ErrUnknownFilterField, field)
		}

		spec.Filters = append(spec.Filters, Filter{
			Field: field,
			Op:    op,
			Value: values.Get(key),
		})
	}

	// Map iteration order is random; keep the generated SQL deterministic.
	sort.Slice(spec.Filters, func(i, j int) bool {
		if spec.Filters[i].Field != spec.Filters[j].Field {
			return spec.Filters[i].Field < spec.Filters[j].Field
		}
		return spec.Filters[i].Op < spec.Filters[j].Op
	})

	// Sort stage.
	if raw := values.Get(ParamSort); raw != "" {
		for _, term := range strings.Split(raw, ",") {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}

			key := SortKey{Field: term}
			if strings.HasPrefix(term, "-") {
				key = SortKey{Field: term[1:], Desc: true}
			}

			if _, ok := schema.Sortable[key.Field]; !ok {
				return Spec{}, fmt.Errorf("%w: %q", ErrUnknownSortField, key.Field)
			}
			spec.Sort = append(spec.Sort, key)
		}
	} else {
		spec.Sort = schema.DefaultSort
	}

	// Projection stage.
	if raw := values.Get(ParamFields); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			if _, ok := schema.Selectable[field]; !ok {
				return Spec{}, fmt.Errorf("%w: %q", ErrUnknownProjectionField, field)
			}
			spec.Fields = append(spec.Fields, field)
		}
	}

	return spec, nil
}

// Build applies the full spec onto a base builder: projection columns,
// WHERE clauses, ORDER BY and LIMIT/OFFSET.
//
// The base builder must not carry columns of its own; fixed constraints
// (soft-delete exclusion, secrecy flags) belong in its WHERE clause.
func Build(base sq.SelectBuilder, spec Spec, schema Schema) sq.SelectBuilder {
	builder := base.Columns(projection(spec, schema)...)
	builder = ApplyFilters(builder, spec, schema)

	for _, key := range spec.Sort {
		direction := " ASC"
		if key.Desc {
			direction = " DESC"
		}
		builder = builder.OrderBy(schema.Sortable[key.Field] + direction)
	}

	return builder.
		Limit(uint64(spec.Page.Limit)).
		Offset(uint64(spec.Page.Offset()))
}

// ApplyFilters adds only the WHERE clauses of the spec to a builder.
//
// Count queries use this directly so that pagination metadata reflects the
// same filtered set as the page itself.
func ApplyFilters(builder sq.SelectBuilder, spec Spec, schema Schema) sq.SelectBuilder {
	for _, filter := range spec.Filters {
		column := schema.Filterable[filter.Field]
		value := coerce(filter.Value)

		switch filter.Op {
		case OpGt:
			builder = builder.Where(sq.Gt{column: value})
		case OpGte:
			builder = builder.Where(sq.GtOrEq{column: value})
		case OpLt:
			builder = builder.Where(sq.Lt{column: value})
		case OpLte:
			builder = builder.Where(sq.LtOrEq{column: value})
		default:
			builder = builder.Where(sq.Eq{column: value})
		}
	}
	return builder
}

// projection resolves the selected column expressions, aliasing columns to
// their API field names so rows can be serialized without remapping.
func projection(spec Spec, schema Schema) []string {
	if len(spec.Fields) == 0 {
		return schema.DefaultColumns
	}

	columns := make([]string, 0, len(spec.Fields))
	for _, field := range spec.Fields {
		expr := schema.Selectable[field]
		if expr != field {
			expr += " AS " + field
		}
		columns = append(columns, expr)
	}
	return columns
}

// coerce converts a raw query value into the narrowest Go type so the
// database receives a correctly typed bind parameter.
func coerce(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
