// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

/*
Package reviews implements traveler ratings of tours.

Every review mutation transactionally refreshes the parent tour's
denormalized rating aggregates, keeping listings sortable by rating without
joins.
*/
package reviews

import (
	"context"
	"log/slog"

	"github.com/wayfarer-travel/wayfarer/internal/platform/apperr"
	"github.com/wayfarer-travel/wayfarer/internal/platform/sec"
	"github.com/wayfarer-travel/wayfarer/internal/platform/validate"
	"github.com/wayfarer-travel/wayfarer/pkg/uuid"
)

type Service struct {
	repository Repository
	logger     *slog.Logger
}

func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// CreateInput holds a new review. UserID always comes from the session
// principal, never from the request body.
type CreateInput struct {
	TourID int
	UserID string
	Review string
	Rating int
}

// Create validates and persists a review. A nonexistent tour surfaces as a
// validation error through the foreign key constraint.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Review, error) {
	validator := &validate.Validator{}
	validator.Required(FieldReview, input.Review).
		MaxLen(FieldReview, input.Review, 2000).
		Range(FieldRating, input.Rating, 1, 5).
		Custom(FieldTourID, input.TourID <= 0, "A review must belong to a tour")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	review := &Review{
		ID:     uuid.New(),
		TourID: input.TourID,
		UserID: input.UserID,
		Review: input.Review,
		Rating: input.Rating,
	}

	if err := service.repository.Create(ctx, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_created",
		slog.String("review_id", review.ID),
		slog.Int("tour_id", review.TourID),
	)
	return review, nil
}

// Delete removes a review. Only its author or an admin may delete it.
func (service *Service) Delete(ctx context.Context, id string, principal *sec.Principal) error {
	review, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if review.UserID != principal.ID && !principal.Role.In(sec.RoleAdmin) {
		return apperr.Forbidden("You are not authorized to perform this action")
	}

	if err := service.repository.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.Warn("review_deleted", slog.String("review_id", id))
	return nil
}

// ListByTour returns every review of one tour.
func (service *Service) ListByTour(ctx context.Context, tourID int) ([]*Review, error) {
	return service.repository.ListByTour(ctx, tourID)
}

// List returns a page of all reviews.
func (service *Service) List(ctx context.Context, limit, offset int) ([]*Review, int, error) {
	return service.repository.List(ctx, limit, offset)
}
