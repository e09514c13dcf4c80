// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

/*
Package tours implements the tour catalog: the query-customizable listing,
CRUD, and the aggregate reports (per-difficulty stats, monthly plan).

Architecture:

  - Service: Validation, slug derivation, cache orchestration.
  - Repository: squirrel-built listings and raw-SQL CRUD over PostgreSQL.
  - StatsCache: best-effort Redis cache in front of the aggregates.
*/
package tours

import (
	"context"
	"log/slog"
	"time"

	"github.com/wayfarer-travel/wayfarer/internal/platform/validate"
	"github.com/wayfarer-travel/wayfarer/pkg/query"
	"github.com/wayfarer-travel/wayfarer/pkg/slug"
)

// defaultRatingsAverage seeds new tours so sorting by rating behaves before
// the first review lands.
const defaultRatingsAverage = 4.0

type Service struct {
	repository Repository
	cache      StatsCache
	logger     *slog.Logger
}

func NewService(repository Repository, cache StatsCache, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		cache:      cache,
		logger:     logger,
	}
}

// List returns a page of tours shaped by the parsed query spec.
func (service *Service) List(ctx context.Context, spec query.Spec) ([]map[string]any, int, error) {
	return service.repository.List(ctx, spec)
}

// Get returns one tour by id.
func (service *Service) Get(ctx context.Context, id int) (*Tour, error) {
	return service.repository.Get(ctx, id)
}

// CreateInput holds the data for a new tour.
type CreateInput struct {
	Name          string
	Duration      int
	MaxGroupSize  int
	Difficulty    string
	Price         float64
	PriceDiscount *float64
	Summary       string
	Description   *string
	ImageCover    string
	Images        []string
	StartDates    []time.Time
	Secret        bool
}

// Create validates and persists a new tour, deriving its slug from the name.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Tour, error) {
	if err := validateTour(input); err != nil {
		return nil, err
	}

	tour := &Tour{
		Name:            input.Name,
		Slug:            slug.From(input.Name),
		Duration:        input.Duration,
		MaxGroupSize:    input.MaxGroupSize,
		Difficulty:      input.Difficulty,
		RatingsAverage:  defaultRatingsAverage,
		RatingsQuantity: 0,
		Price:           input.Price,
		PriceDiscount:   input.PriceDiscount,
		Summary:         input.Summary,
		Description:     input.Description,
		ImageCover:      input.ImageCover,
		Images:          input.Images,
		StartDates:      input.StartDates,
		Secret:          input.Secret,
	}

	if err := service.repository.Create(ctx, tour); err != nil {
		return nil, err
	}

	service.logger.Info("tour_created",
		slog.Int("tour_id", tour.ID),
		slog.String("slug", tour.Slug),
	)
	return tour, nil
}

// UpdateInput carries partial tour changes. Nil means "leave unchanged".
type UpdateInput struct {
	Name          *string
	Duration      *int
	MaxGroupSize  *int
	Difficulty    *string
	Price         *float64
	PriceDiscount *float64
	Summary       *string
	Description   *string
	ImageCover    *string
	Images        []string
	StartDates    []time.Time
	Secret        *bool
}

// Update applies a partial patch to an existing tour. A name change also
// refreshes the slug.
func (service *Service) Update(ctx context.Context, id int, input UpdateInput) (*Tour, error) {
	tour, err := service.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		tour.Name = *input.Name
		tour.Slug = slug.From(*input.Name)
	}
	if input.Duration != nil {
		tour.Duration = *input.Duration
	}
	if input.MaxGroupSize != nil {
		tour.MaxGroupSize = *input.MaxGroupSize
	}
	if input.Difficulty != nil {
		tour.Difficulty = *input.Difficulty
	}
	if input.Price != nil {
		tour.Price = *input.Price
	}
	if input.PriceDiscount != nil {
		tour.PriceDiscount = input.PriceDiscount
	}
	if input.Summary != nil {
		tour.Summary = *input.Summary
	}
	if input.Description != nil {
		tour.Description = input.Description
	}
	if input.ImageCover != nil {
		tour.ImageCover = *input.ImageCover
	}
	if input.Images != nil {
		tour.Images = input.Images
	}
	if input.StartDates != nil {
		tour.StartDates = input.StartDates
	}
	if input.Secret != nil {
		tour.Secret = *input.Secret
	}

	if err := validateTour(CreateInput{
		Name:          tour.Name,
		Duration:      tour.Duration,
		MaxGroupSize:  tour.MaxGroupSize,
		Difficulty:    tour.Difficulty,
		Price:         tour.Price,
		PriceDiscount: tour.PriceDiscount,
		Summary:       tour.Summary,
		ImageCover:    tour.ImageCover,
	}); err != nil {
		return nil, err
	}

	if err := service.repository.Update(ctx, tour); err != nil {
		return nil, err
	}

	service.logger.Info("tour_updated", slog.Int("tour_id", tour.ID))
	return tour, nil
}

// Delete permanently removes a tour.
func (service *Service) Delete(ctx context.Context, id int) error {
	if err := service.repository.Delete(ctx, id); err != nil {
		return err
	}

	service.logger.Warn("tour_deleted", slog.Int("tour_id", id))
	return nil
}

// DifficultyStats returns the per-difficulty aggregate report, serving from
// cache when a fresh copy exists.
func (service *Service) DifficultyStats(ctx context.Context) ([]DifficultyStats, error) {
	if stats, hit := service.cache.GetDifficultyStats(ctx); hit {
		return stats, nil
	}

	stats, err := service.repository.DifficultyStats(ctx)
	if err != nil {
		return nil, err
	}

	service.cache.SetDifficultyStats(ctx, stats)
	return stats, nil
}

// MonthlyPlan returns the busiest-month report for a year, cache first.
func (service *Service) MonthlyPlan(ctx context.Context, year int) ([]MonthlyStat, error) {
	if plan, hit := service.cache.GetMonthlyPlan(ctx, year); hit {
		return plan, nil
	}

	plan, err := service.repository.MonthlyPlan(ctx, year)
	if err != nil {
		return nil, err
	}

	service.cache.SetMonthlyPlan(ctx, year, plan)
	return plan, nil
}

// validateTour checks the invariant fields shared by create and update.
func validateTour(input CreateInput) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 100).
		Custom(FieldDuration, input.Duration <= 0, "Must be greater than zero").
		Custom(FieldMaxGroupSize, input.MaxGroupSize <= 0, "Must be greater than zero").
		OneOf(FieldDifficulty, input.Difficulty, DifficultyEasy, DifficultyMedium, DifficultyDifficult).
		Positive(FieldPrice, input.Price).
		Required(FieldSummary, input.Summary).
		Required(FieldImageCover, input.ImageCover)

	if input.PriceDiscount != nil {
		validator.Custom(FieldPriceDiscount,
			*input.PriceDiscount >= input.Price,
			"Discount must be below the regular price")
	}

	return validator.Err()
}
