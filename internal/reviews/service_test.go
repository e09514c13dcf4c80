// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package reviews_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/platform/apperr"
	"github.com/wayfarer-travel/wayfarer/internal/platform/dberr"
	"github.com/wayfarer-travel/wayfarer/internal/platform/sec"
	"github.com/wayfarer-travel/wayfarer/internal/reviews"
)

// fakeRepository is an in-memory review store.
type fakeRepository struct {
	byID map[string]*reviews.Review
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: make(map[string]*reviews.Review)}
}

func (r *fakeRepository) Create(_ context.Context, review *reviews.Review) error {
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	r.byID[review.ID] = review
	return nil
}

func (r *fakeRepository) FindByID(_ context.Context, id string) (*reviews.Review, error) {
	review, ok := r.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return review, nil
}

func (r *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeRepository) ListByTour(_ context.Context, tourID int) ([]*reviews.Review, error) {
	var result []*reviews.Review
	for _, review := range r.byID {
		if review.TourID == tourID {
			result = append(result, review)
		}
	}
	return result, nil
}

func (r *fakeRepository) List(_ context.Context, limit, offset int) ([]*reviews.Review, int, error) {
	var result []*reviews.Review
	for _, review := range r.byID {
		result = append(result, review)
	}
	return result, len(result), nil
}

func newService(repository *fakeRepository) *reviews.Service {
	return reviews.NewService(repository, slog.Default())
}

func validInput() reviews.CreateInput {
	return reviews.CreateInput{
		TourID: 1,
		UserID: "user-1",
		Review: "Stunning views and a great guide.",
		Rating: 5,
	}
}

/*
TestService_Create covers review persistence and validation.
*/
func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service := newService(newFakeRepository())

		review, err := service.Create(ctx, validInput())
		require.NoError(t, err)

		assert.NotEmpty(t, review.ID)
		assert.Equal(t, 1, review.TourID)
		assert.Equal(t, "user-1", review.UserID)
	})

	t.Run("validation_failures", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*reviews.CreateInput)
		}{
			{"empty_review", func(in *reviews.CreateInput) { in.Review = "" }},
			{"rating_too_low", func(in *reviews.CreateInput) { in.Rating = 0 }},
			{"rating_too_high", func(in *reviews.CreateInput) { in.Rating = 6 }},
			{"missing_tour", func(in *reviews.CreateInput) { in.TourID = 0 }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service := newService(newFakeRepository())

				input := validInput()
				tt.mutate(&input)

				_, err := service.Create(ctx, input)
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
			})
		}
	})

	t.Run("rating_bounds_inclusive", func(t *testing.T) {
		service := newService(newFakeRepository())

		for _, rating := range []int{1, 5} {
			input := validInput()
			input.Rating = rating
			_, err := service.Create(ctx, input)
			assert.NoError(t, err)
		}
	})
}

/*
TestService_Delete covers the author-or-admin ownership rule.
*/
func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*reviews.Service, *fakeRepository, *reviews.Review) {
		t.Helper()
		repository := newFakeRepository()
		service := newService(repository)
		review, err := service.Create(ctx, validInput())
		require.NoError(t, err)
		return service, repository, review
	}

	t.Run("author_may_delete", func(t *testing.T) {
		service, _, review := seed(t)
		author := &sec.Principal{ID: "user-1", Role: sec.RoleTourist}

		assert.NoError(t, service.Delete(ctx, review.ID, author))
	})

	t.Run("admin_may_delete", func(t *testing.T) {
		service, _, review := seed(t)
		admin := &sec.Principal{ID: "someone-else", Role: sec.RoleAdmin}

		assert.NoError(t, service.Delete(ctx, review.ID, admin))
	})

	t.Run("stranger_forbidden", func(t *testing.T) {
		service, repository, review := seed(t)
		stranger := &sec.Principal{ID: "someone-else", Role: sec.RoleTourist}

		err := service.Delete(ctx, review.ID, stranger)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

		// The review survives the rejected attempt.
		assert.Contains(t, repository.byID, review.ID)
	})

	t.Run("missing_review", func(t *testing.T) {
		service, _, _ := seed(t)
		admin := &sec.Principal{ID: "a", Role: sec.RoleAdmin}

		err := service.Delete(ctx, "no-such-id", admin)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_ListByTour verifies scoping reviews to one tour.
*/
func TestService_ListByTour(t *testing.T) {
	ctx := context.Background()
	service := newService(newFakeRepository())

	first := validInput()
	_, err := service.Create(ctx, first)
	require.NoError(t, err)

	second := validInput()
	second.TourID = 2
	second.UserID = "user-2"
	_, err = service.Create(ctx, second)
	require.NoError(t, err)

	scoped, err := service.ListByTour(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, scoped, 1)

	all, total, err := service.List(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, total)
}
