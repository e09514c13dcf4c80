// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package tours

import (
	"context"

	"github.com/wayfarer-travel/wayfarer/pkg/query"
)

// Repository is the persistence contract for tours.
type Repository interface {
	// List returns a page of tours shaped by the query spec, as loosely
	// typed rows so client-requested projections serialize as-is, plus the
	// filtered total. Secret tours are always excluded.
	List(ctx context.Context, spec query.Spec) ([]map[string]any, int, error)

	// Get returns one tour by primary key, secret ones included.
	Get(ctx context.Context, id int) (*Tour, error)

	// Create persists a new tour and fills in its generated id and timestamps.
	Create(ctx context.Context, tour *Tour) error

	// Update persists a full tour row by primary key.
	Update(ctx context.Context, tour *Tour) error

	// Delete permanently removes a tour and, via cascade, its reviews.
	Delete(ctx context.Context, id int) error

	// DifficultyStats aggregates premium tours (price >= 1000) per difficulty.
	DifficultyStats(ctx context.Context) ([]DifficultyStats, error)

	// MonthlyPlan counts tour starts per month of the given year, busiest
	// months first.
	MonthlyPlan(ctx context.Context, year int) ([]MonthlyStat, error)
}

// StatsCache is the volatile cache in front of the aggregate reports.
// A failed or missing read is a miss, never an error.
type StatsCache interface {
	GetDifficultyStats(ctx context.Context) ([]DifficultyStats, bool)
	SetDifficultyStats(ctx context.Context, stats []DifficultyStats)

	GetMonthlyPlan(ctx context.Context, year int) ([]MonthlyStat, bool)
	SetMonthlyPlan(ctx context.Context, year int, plan []MonthlyStat)
}
