// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package tours

import (
	"time"

	"github.com/wayfarer-travel/wayfarer/pkg/query"
)

// Tour represents a bookable travel product.
type Tour struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`

	Duration     int    `json:"duration"`
	MaxGroupSize int    `json:"max_group_size"`
	Difficulty   string `json:"difficulty"`

	RatingsAverage  float64 `json:"ratings_average"`
	RatingsQuantity int     `json:"ratings_quantity"`

	Price         float64  `json:"price"`
	PriceDiscount *float64 `json:"price_discount"`

	Summary     string  `json:"summary"`
	Description *string `json:"description"`

	ImageCover string   `json:"image_cover"`
	Images     []string `json:"images"`

	StartDates []time.Time `json:"start_dates"`

	// Secret tours are reachable by direct id only, never through listings.
	Secret bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Allowed difficulty levels.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// DifficultyStats is one row of the per-difficulty aggregate report.
type DifficultyStats struct {
	Difficulty string  `json:"difficulty"`
	NumTours   int     `json:"num_tours"`
	NumRatings int     `json:"num_ratings"`
	AvgRating  float64 `json:"avg_rating"`
	AvgPrice   float64 `json:"avg_price"`
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
}

// MonthlyStat is one row of the busiest-month report for a given year.
type MonthlyStat struct {
	Month         int      `json:"month"`
	NumTourStarts int      `json:"num_tour_starts"`
	Tours         []string `json:"tours"`
}

// Global field names for validation
const (
	FieldName          = "name"
	FieldDuration      = "duration"
	FieldMaxGroupSize  = "max_group_size"
	FieldDifficulty    = "difficulty"
	FieldRatingsAvg    = "ratings_average"
	FieldPrice         = "price"
	FieldPriceDiscount = "price_discount"
	FieldSummary       = "summary"
	FieldImageCover    = "image_cover"
	FieldYear          = "year"
)

// Schema is the listing allowlist for tours: which API fields may drive
// filtering, sorting and projection, and how each maps to a column.
//
// The secret flag is deliberately absent everywhere, so clients can neither
// filter on it nor project it.
var Schema = query.Schema{
	Filterable: map[string]string{
		"duration":         "duration",
		"max_group_size":   "max_group_size",
		"difficulty":       "difficulty",
		"ratings_average":  "ratings_average",
		"ratings_quantity": "ratings_quantity",
		"price":            "price",
	},
	Sortable: map[string]string{
		"name":             "name",
		"duration":         "duration",
		"max_group_size":   "max_group_size",
		"difficulty":       "difficulty",
		"ratings_average":  "ratings_average",
		"ratings_quantity": "ratings_quantity",
		"price":            "price",
		"created_at":       "created_at",
	},
	Selectable: map[string]string{
		"id":               "id",
		"name":             "name",
		"slug":             "slug",
		"duration":         "duration",
		"max_group_size":   "max_group_size",
		"difficulty":       "difficulty",
		"ratings_average":  "ratings_average",
		"ratings_quantity": "ratings_quantity",
		"price":            "price",
		"price_discount":   "price_discount",
		"summary":          "summary",
		"description":      "description",
		"image_cover":      "image_cover",
		"images":           "images",
		"start_dates":      "start_dates",
		"created_at":       "created_at",
	},
	DefaultSort: []query.SortKey{{Field: "ratings_average", Desc: true}},
	DefaultColumns: []string{
		"id", "name", "slug", "duration", "max_group_size", "difficulty",
		"ratings_average", "ratings_quantity", "price", "price_discount",
		"summary", "description", "image_cover", "images", "start_dates",
		"created_at",
	},
}
