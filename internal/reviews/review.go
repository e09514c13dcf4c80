// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package reviews

import "time"

// Review is one traveler's rating of a tour.
type Review struct {
	ID     string `json:"id"`
	TourID int    `json:"tour_id"`
	UserID string `json:"user_id"`

	Review string `json:"review"`
	Rating int    `json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Global field names for validation
const (
	FieldReview = "review"
	FieldRating = "rating"
	FieldTourID = "tour_id"
)
