// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package tours_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/platform/apperr"
	"github.com/wayfarer-travel/wayfarer/internal/platform/dberr"
	"github.com/wayfarer-travel/wayfarer/internal/tours"
	"github.com/wayfarer-travel/wayfarer/pkg/query"
)

// fakeRepository is an in-memory tour store with call counters for the
// aggregate queries.
type fakeRepository struct {
	byID   map[int]*tours.Tour
	nextID int

	statsCalls int
	planCalls  int
	stats      []tours.DifficultyStats
	plan       []tours.MonthlyStat
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: make(map[int]*tours.Tour), nextID: 1}
}

func (r *fakeRepository) List(context.Context, query.Spec) ([]map[string]any, int, error) {
	return nil, 0, nil
}

func (r *fakeRepository) Get(_ context.Context, id int) (*tours.Tour, error) {
	tour, ok := r.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *tour
	return &copied, nil
}

func (r *fakeRepository) Create(_ context.Context, tour *tours.Tour) error {
	tour.ID = r.nextID
	r.nextID++
	now := time.Now()
	tour.CreatedAt = now
	tour.UpdatedAt = now
	r.byID[tour.ID] = tour
	return nil
}

func (r *fakeRepository) Update(_ context.Context, tour *tours.Tour) error {
	if _, ok := r.byID[tour.ID]; !ok {
		return dberr.ErrNotFound
	}
	r.byID[tour.ID] = tour
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, id int) error {
	if _, ok := r.byID[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeRepository) DifficultyStats(context.Context) ([]tours.DifficultyStats, error) {
	r.statsCalls++
	return r.stats, nil
}

func (r *fakeRepository) MonthlyPlan(context.Context, int) ([]tours.MonthlyStat, error) {
	r.planCalls++
	return r.plan, nil
}

// fakeCache is an in-memory StatsCache.
type fakeCache struct {
	stats    []tours.DifficultyStats
	hasStats bool
	plans    map[int][]tours.MonthlyStat
}

func newFakeCache() *fakeCache {
	return &fakeCache{plans: make(map[int][]tours.MonthlyStat)}
}

func (c *fakeCache) GetDifficultyStats(context.Context) ([]tours.DifficultyStats, bool) {
	return c.stats, c.hasStats
}

func (c *fakeCache) SetDifficultyStats(_ context.Context, stats []tours.DifficultyStats) {
	c.stats = stats
	c.hasStats = true
}

func (c *fakeCache) GetMonthlyPlan(_ context.Context, year int) ([]tours.MonthlyStat, bool) {
	plan, ok := c.plans[year]
	return plan, ok
}

func (c *fakeCache) SetMonthlyPlan(_ context.Context, year int, plan []tours.MonthlyStat) {
	c.plans[year] = plan
}

func newService(repository *fakeRepository, cache *fakeCache) *tours.Service {
	return tours.NewService(repository, cache, slog.Default())
}

func validInput() tours.CreateInput {
	return tours.CreateInput{
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   tours.DifficultyEasy,
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:   "tour-1-cover.jpg",
	}
}

/*
TestService_Create covers slug derivation, rating seeding, and the
validation rules shared with update.
*/
func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service := newService(newFakeRepository(), newFakeCache())

		tour, err := service.Create(ctx, validInput())
		require.NoError(t, err)

		assert.Equal(t, 1, tour.ID)
		assert.Equal(t, "the-forest-hiker", tour.Slug)
		assert.Equal(t, 4.0, tour.RatingsAverage)
		assert.Equal(t, 0, tour.RatingsQuantity)
	})

	t.Run("validation_failures", func(t *testing.T) {
		discountTooHigh := 500.0

		tests := []struct {
			name   string
			mutate func(*tours.CreateInput)
		}{
			{"missing_name", func(in *tours.CreateInput) { in.Name = "" }},
			{"zero_duration", func(in *tours.CreateInput) { in.Duration = 0 }},
			{"zero_group_size", func(in *tours.CreateInput) { in.MaxGroupSize = 0 }},
			{"unknown_difficulty", func(in *tours.CreateInput) { in.Difficulty = "extreme" }},
			{"zero_price", func(in *tours.CreateInput) { in.Price = 0 }},
			{"missing_summary", func(in *tours.CreateInput) { in.Summary = "" }},
			{"missing_cover", func(in *tours.CreateInput) { in.ImageCover = "" }},
			{"discount_at_price", func(in *tours.CreateInput) { in.PriceDiscount = &in.Price }},
			{"discount_above_price", func(in *tours.CreateInput) { in.PriceDiscount = &discountTooHigh }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				service := newService(newFakeRepository(), newFakeCache())

				input := validInput()
				tt.mutate(&input)

				_, err := service.Create(ctx, input)
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
			})
		}
	})

	t.Run("discount_below_price_allowed", func(t *testing.T) {
		service := newService(newFakeRepository(), newFakeCache())

		input := validInput()
		discount := 300.0
		input.PriceDiscount = &discount

		_, err := service.Create(ctx, input)
		assert.NoError(t, err)
	})
}

/*
TestService_Update covers partial patching, slug refresh, and revalidation
of the patched row.
*/
func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("patch_leaves_other_fields", func(t *testing.T) {
		repository := newFakeRepository()
		service := newService(repository, newFakeCache())

		created, err := service.Create(ctx, validInput())
		require.NoError(t, err)

		newPrice := 449.0
		updated, err := service.Update(ctx, created.ID, tours.UpdateInput{Price: &newPrice})
		require.NoError(t, err)

		assert.Equal(t, 449.0, updated.Price)
		assert.Equal(t, "The Forest Hiker", updated.Name)
		assert.Equal(t, "the-forest-hiker", updated.Slug)
	})

	t.Run("name_change_refreshes_slug", func(t *testing.T) {
		repository := newFakeRepository()
		service := newService(repository, newFakeCache())

		created, err := service.Create(ctx, validInput())
		require.NoError(t, err)

		newName := "The Snow Adventurer"
		updated, err := service.Update(ctx, created.ID, tours.UpdateInput{Name: &newName})
		require.NoError(t, err)

		assert.Equal(t, "the-snow-adventurer", updated.Slug)
	})

	t.Run("patched_row_is_revalidated", func(t *testing.T) {
		repository := newFakeRepository()
		service := newService(repository, newFakeCache())

		created, err := service.Create(ctx, validInput())
		require.NoError(t, err)

		badDifficulty := "impossible"
		_, err = service.Update(ctx, created.ID, tours.UpdateInput{Difficulty: &badDifficulty})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

		// The stored row is untouched after a failed patch.
		stored, err := service.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, tours.DifficultyEasy, stored.Difficulty)
	})

	t.Run("missing_tour", func(t *testing.T) {
		service := newService(newFakeRepository(), newFakeCache())

		name := "Ghost Tour"
		_, err := service.Update(ctx, 999, tours.UpdateInput{Name: &name})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_Delete verifies removal and the not-found path.
*/
func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository()
	service := newService(repository, newFakeCache())

	created, err := service.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID))

	_, err = service.Get(ctx, created.ID)
	assert.Error(t, err)

	assert.Error(t, service.Delete(ctx, created.ID))
}

/*
TestService_DifficultyStats verifies cache-first serving of the aggregate.
*/
func TestService_DifficultyStats(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository()
	repository.stats = []tours.DifficultyStats{{Difficulty: tours.DifficultyEasy, NumTours: 3, AvgPrice: 1497}}
	cache := newFakeCache()
	service := newService(repository, cache)

	// Miss populates the cache.
	stats, err := service.DifficultyStats(ctx)
	require.NoError(t, err)
	assert.Len(t, stats, 1)
	assert.Equal(t, 1, repository.statsCalls)
	assert.True(t, cache.hasStats)

	// Hit skips the repository.
	_, err = service.DifficultyStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repository.statsCalls)
}

/*
TestService_MonthlyPlan verifies the per-year cache keying.
*/
func TestService_MonthlyPlan(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository()
	repository.plan = []tours.MonthlyStat{{Month: 7, NumTourStarts: 3, Tours: []string{"The Forest Hiker"}}}
	cache := newFakeCache()
	service := newService(repository, cache)

	plan, err := service.MonthlyPlan(ctx, 2026)
	require.NoError(t, err)
	assert.Len(t, plan, 1)
	assert.Equal(t, 1, repository.planCalls)

	// Same year hits the cache, a different year misses.
	_, err = service.MonthlyPlan(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, repository.planCalls)

	_, err = service.MonthlyPlan(ctx, 2027)
	require.NoError(t, err)
	assert.Equal(t, 2, repository.planCalls)
}
