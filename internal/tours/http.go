// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package tours

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/wayfarer/internal/platform/apperr"
	"github.com/wayfarer-travel/wayfarer/internal/platform/middleware"
	requestutil "github.com/wayfarer-travel/wayfarer/internal/platform/request"
	"github.com/wayfarer-travel/wayfarer/internal/platform/respond"
	"github.com/wayfarer-travel/wayfarer/internal/platform/sec"
	"github.com/wayfarer-travel/wayfarer/internal/platform/validate"
	"github.com/wayfarer-travel/wayfarer/pkg/pagination"
	"github.com/wayfarer-travel/wayfarer/pkg/query"
)

// ReviewsLoader fetches the reviews shown inline on a tour detail page.
// Wired to the reviews service at composition time to keep the packages
// decoupled.
type ReviewsLoader func(ctx context.Context, tourID int) (any, error)

// Handler implements the tour catalog HTTP endpoints.
type Handler struct {
	service       *Service
	guard         *middleware.Guard
	reviewsOfTour ReviewsLoader
}

func NewHandler(service *Service, guard *middleware.Guard, reviewsOfTour ReviewsLoader) *Handler {
	return &Handler{service: service, guard: guard, reviewsOfTour: reviewsOfTour}
}

// Routes returns a [chi.Router] with the tour catalog surface.
// The nested per-tour review routes are mounted separately by the server.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints. Static segments are registered alongside /{id};
	// chi resolves them before the wildcard.
	router.Get("/top-5-tours", handler.listTopFive)
	router.Get("/tour-stats", handler.difficultyStats)
	router.Get("/{id}", handler.getTour)
	router.Post("/", handler.createTour)
	router.Patch("/{id}", handler.updateTour)

	// The full listing requires a session.
	router.With(handler.guard.Authenticate).Get("/", handler.listTours)

	// Destructive operations are restricted to tour management roles.
	router.With(
		handler.guard.Authenticate,
		handler.guard.RequireRoles(sec.RoleAdmin, sec.RoleLeadGuide),
	).Delete("/{id}", handler.deleteTour)

	return router
}

// # Listing Endpoints

/*
listTours returns a customizable page of tours.

GET /api/v1/tours

Query parameters: `field[op]=value` filters, `sort`, `fields`, `page`,
`limit`, all validated against the tour schema allowlist.
*/
func (handler *Handler) listTours(writer http.ResponseWriter, request *http.Request) {
	handler.list(writer, request, request.URL.Query())
}

/*
listTopFive is a preset listing: the five best-rated tours, cheapest first
among ties, with a compact field set.

GET /api/v1/tours/top-5-tours
*/
func (handler *Handler) listTopFive(writer http.ResponseWriter, request *http.Request) {
	preset := url.Values{}
	preset.Set(query.ParamLimit, "5")
	preset.Set(query.ParamSort, "-ratings_average,price")
	preset.Set(query.ParamFields, "name,price,ratings_average,summary,difficulty")

	handler.list(writer, request, preset)
}

// list parses the query spec from values and writes the paginated page.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request, values url.Values) {
	spec, err := query.Parse(values, Schema)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError(err.Error()))
		return
	}

	items, total, err := handler.service.List(request.Context(), spec)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, items, len(items), pagination.NewMeta(spec.Page.Page, spec.Page.Limit, total))
}

// # Detail & Mutation Endpoints

// getTour returns one tour together with its reviews.
//
// GET /api/v1/tours/{id}
func (handler *Handler) getTour(writer http.ResponseWriter, request *http.Request) {
	tourID, err := tourIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tour, err := handler.service.Get(request.Context(), tourID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tourReviews, err := handler.reviewsOfTour(request.Context(), tour.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"tour":    tour,
		"reviews": tourReviews,
	})
}

type tourRequest struct {
	Name          *string     `json:"name"`
	Duration      *int        `json:"duration"`
	MaxGroupSize  *int        `json:"max_group_size"`
	Difficulty    *string     `json:"difficulty"`
	Price         *float64    `json:"price"`
	PriceDiscount *float64    `json:"price_discount"`
	Summary       *string     `json:"summary"`
	Description   *string     `json:"description"`
	ImageCover    *string     `json:"image_cover"`
	Images        []string    `json:"images"`
	StartDates    []time.Time `json:"start_dates"`
	Secret        *bool       `json:"secret"`
}

// createTour persists a new tour.
//
// POST /api/v1/tours
func (handler *Handler) createTour(writer http.ResponseWriter, request *http.Request) {
	var input tourRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	create := CreateInput{
		PriceDiscount: input.PriceDiscount,
		Description:   input.Description,
		Images:        input.Images,
		StartDates:    input.StartDates,
	}
	if input.Name != nil {
		create.Name = *input.Name
	}
	if input.Duration != nil {
		create.Duration = *input.Duration
	}
	if input.MaxGroupSize != nil {
		create.MaxGroupSize = *input.MaxGroupSize
	}
	if input.Difficulty != nil {
		create.Difficulty = *input.Difficulty
	}
	if input.Price != nil {
		create.Price = *input.Price
	}
	if input.Summary != nil {
		create.Summary = *input.Summary
	}
	if input.ImageCover != nil {
		create.ImageCover = *input.ImageCover
	}
	if input.Secret != nil {
		create.Secret = *input.Secret
	}

	tour, err := handler.service.Create(request.Context(), create)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, tour)
}

// updateTour applies a partial patch to a tour.
//
// PATCH /api/v1/tours/{id}
func (handler *Handler) updateTour(writer http.ResponseWriter, request *http.Request) {
	tourID, err := tourIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input tourRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tour, err := handler.service.Update(request.Context(), tourID, UpdateInput{
		Name:          input.Name,
		Duration:      input.Duration,
		MaxGroupSize:  input.MaxGroupSize,
		Difficulty:    input.Difficulty,
		Price:         input.Price,
		PriceDiscount: input.PriceDiscount,
		Summary:       input.Summary,
		Description:   input.Description,
		ImageCover:    input.ImageCover,
		Images:        input.Images,
		StartDates:    input.StartDates,
		Secret:        input.Secret,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tour)
}

// deleteTour permanently removes a tour.
//
// DELETE /api/v1/tours/{id}
func (handler *Handler) deleteTour(writer http.ResponseWriter, request *http.Request) {
	tourID, err := tourIDParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), tourID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Report Endpoints

// difficultyStats returns the per-difficulty aggregate report.
//
// GET /api/v1/tours/tour-stats
func (handler *Handler) difficultyStats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.DifficultyStats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

// MonthlyPlan returns the busiest-month report for a year. Mounted at the
// top level as GET /api/v1/tours-monthly/{year}.
func (handler *Handler) MonthlyPlan(writer http.ResponseWriter, request *http.Request) {
	year, err := strconv.Atoi(requestutil.Param(request, "year"))
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldYear, "Must be a four-digit year"))
		return
	}

	plan, err := handler.service.MonthlyPlan(request.Context(), year)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, plan)
}

// tourIDParam parses the {id} route parameter.
func tourIDParam(request *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(request, "id"))
	if err != nil {
		return 0, apperr.ValidationError("Tour id must be an integer")
	}
	return id, nil
}
