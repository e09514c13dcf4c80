// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package reviews

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/wayfarer/internal/platform/apperr"
	"github.com/wayfarer-travel/wayfarer/internal/platform/middleware"
	requestutil "github.com/wayfarer-travel/wayfarer/internal/platform/request"
	"github.com/wayfarer-travel/wayfarer/internal/platform/respond"
	"github.com/wayfarer-travel/wayfarer/internal/platform/sec"
	"github.com/wayfarer-travel/wayfarer/pkg/pagination"
)

// Handler implements the review HTTP endpoints, both the flat /reviews
// surface and the nested per-tour one.
type Handler struct {
	service *Service
	guard   *middleware.Guard
}

func NewHandler(service *Service, guard *middleware.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns the flat /reviews router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listReviews)

	router.With(
		handler.guard.Authenticate,
		handler.guard.RequireRoles(sec.RoleTourist),
	).Post("/", handler.createReview)

	router.With(handler.guard.Authenticate).Delete("/{id}", handler.deleteReview)

	return router
}

// NestedRoutes returns the router mounted under /tours/{tourId}/review.
// The tour id comes from the URL, the author from the session.
func (handler *Handler) NestedRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listTourReviews)

	router.With(
		handler.guard.Authenticate,
		handler.guard.RequireRoles(sec.RoleTourist),
	).Post("/", handler.createReview)

	return router
}

type reviewRequest struct {
	TourID int    `json:"tour_id"`
	Review string `json:"review"`
	Rating int    `json:"rating"`
}

// listReviews returns a page of all reviews.
//
// GET /api/v1/reviews
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromValues(request.URL.Query())

	items, total, err := handler.service.List(request.Context(), page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, items, len(items), pagination.NewMeta(page.Page, page.Limit, total))
}

// listTourReviews returns every review of the tour in the URL.
//
// GET /api/v1/tours/{tourId}/review
func (handler *Handler) listTourReviews(writer http.ResponseWriter, request *http.Request) {
	tourID, err := strconv.Atoi(requestutil.Param(request, "tourId"))
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Tour id must be an integer"))
		return
	}

	items, err := handler.service.ListByTour(request.Context(), tourID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, items)
}

/*
createReview persists a review authored by the session principal.

POST /api/v1/reviews
POST /api/v1/tours/{tourId}/review

On the nested route the tour id in the URL wins over any body value.
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if nested := requestutil.Param(request, "tourId"); nested != "" {
		tourID, err := strconv.Atoi(nested)
		if err != nil {
			respond.Error(writer, request, apperr.ValidationError("Tour id must be an integer"))
			return
		}
		input.TourID = tourID
	}

	review, err := handler.service.Create(request.Context(), CreateInput{
		TourID: input.TourID,
		UserID: principal.ID,
		Review: input.Review,
		Rating: input.Rating,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

// deleteReview removes a review owned by the caller (or any, for admins).
//
// DELETE /api/v1/reviews/{id}
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id"), principal); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
