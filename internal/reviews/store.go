// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package reviews

import "context"

// Repository is the persistence contract for reviews.
//
// Create and Delete transactionally refresh the parent tour's
// ratings_average and ratings_quantity, so the denormalized aggregates can
// never drift from the review rows.
type Repository interface {
	Create(ctx context.Context, review *Review) error

	FindByID(ctx context.Context, id string) (*Review, error)

	Delete(ctx context.Context, id string) error

	// ListByTour returns every review of one tour, newest first.
	ListByTour(ctx context.Context, tourID int) ([]*Review, error)

	// List returns a page of all reviews with the total count.
	List(ctx context.Context, limit, offset int) ([]*Review, int, error)
}
