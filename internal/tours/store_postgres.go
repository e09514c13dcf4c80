// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package tours

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarer-travel/wayfarer/internal/platform/dberr"
	"github.com/wayfarer-travel/wayfarer/pkg/query"
)

// tourColumns is the canonical SELECT list for scanning a full tour row.
const tourColumns = `
	id, name, slug, duration, max_group_size, difficulty,
	ratings_average, ratings_quantity, price, price_discount,
	summary, description, image_cover, images, start_dates,
	secret, created_at, updated_at`

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// builder returns a squirrel starting point with PostgreSQL placeholders.
func builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (repository *PostgresRepository) List(ctx context.Context, spec query.Spec) ([]map[string]any, int, error) {

	// The filtered total drives pagination metadata and must see the same
	// WHERE clauses as the page query itself.
	countBuilder := query.ApplyFilters(
		builder().Select("count(*)").From("tours").Where(sq.Eq{"secret": false}),
		spec, Schema,
	)

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, dberr.Wrap(err, "build_count_tours")
	}

	var total int
	if err := repository.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_tours")
	}

	listBuilder := query.Build(
		builder().Select().From("tours").Where(sq.Eq{"secret": false}),
		spec, Schema,
	)

	listSQL, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, dberr.Wrap(err, "build_list_tours")
	}

	rows, err := repository.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_tours")
	}

	// Loosely typed rows let a client projection flow straight into JSON.
	items, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "scan_tours")
	}

	return items, total, nil
}

func (repository *PostgresRepository) Get(ctx context.Context, id int) (*Tour, error) {
	tour := &Tour{}

	err := repository.db.QueryRow(ctx, `SELECT `+tourColumns+` FROM tours WHERE id = $1`, id).Scan(
		&tour.ID, &tour.Name, &tour.Slug, &tour.Duration, &tour.MaxGroupSize, &tour.Difficulty,
		&tour.RatingsAverage, &tour.RatingsQuantity, &tour.Price, &tour.PriceDiscount,
		&tour.Summary, &tour.Description, &tour.ImageCover, &tour.Images, &tour.StartDates,
		&tour.Secret, &tour.CreatedAt, &tour.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_tour")
	}

	return tour, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, tour *Tour) error {
	query := `
		INSERT INTO tours (
			name, slug, duration, max_group_size, difficulty,
			ratings_average, ratings_quantity, price, price_discount,
			summary, description, image_cover, images, start_dates,
			secret, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := repository.db.QueryRow(ctx, query,
		tour.Name, tour.Slug, tour.Duration, tour.MaxGroupSize, tour.Difficulty,
		tour.RatingsAverage, tour.RatingsQuantity, tour.Price, tour.PriceDiscount,
		tour.Summary, tour.Description, tour.ImageCover, tour.Images, tour.StartDates,
		tour.Secret,
	).Scan(&tour.ID, &tour.CreatedAt, &tour.UpdatedAt)

	return dberr.Wrap(err, "create_tour")
}

func (repository *PostgresRepository) Update(ctx context.Context, tour *Tour) error {
	query := `
		UPDATE tours
		SET name = $2, slug = $3, duration = $4, max_group_size = $5, difficulty = $6,
		    price = $7, price_discount = $8, summary = $9, description = $10,
		    image_cover = $11, images = $12, start_dates = $13, secret = $14,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := repository.db.QueryRow(ctx, query,
		tour.ID, tour.Name, tour.Slug, tour.Duration, tour.MaxGroupSize, tour.Difficulty,
		tour.Price, tour.PriceDiscount, tour.Summary, tour.Description,
		tour.ImageCover, tour.Images, tour.StartDates, tour.Secret,
	).Scan(&tour.UpdatedAt)

	return dberr.Wrap(err, "update_tour")
}

func (repository *PostgresRepository) Delete(ctx context.Context, id int) error {
	cmd, err := repository.db.Exec(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "delete_tour")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DifficultyStats(ctx context.Context) ([]DifficultyStats, error) {
	query := `
		SELECT difficulty,
		       count(*)                  AS num_tours,
		       coalesce(sum(ratings_quantity), 0) AS num_ratings,
		       avg(ratings_average)      AS avg_rating,
		       avg(price)                AS avg_price,
		       min(price)                AS min_price,
		       max(price)                AS max_price
		FROM tours
		WHERE price >= 1000 AND NOT secret
		GROUP BY difficulty
		ORDER BY avg_price`

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "tour_stats")
	}
	defer rows.Close()

	var stats []DifficultyStats
	for rows.Next() {
		s := DifficultyStats{}
		if err := rows.Scan(&s.Difficulty, &s.NumTours, &s.NumRatings, &s.AvgRating, &s.AvgPrice, &s.MinPrice, &s.MaxPrice); err != nil {
			return nil, dberr.Wrap(err, "scan_tour_stats")
		}
		stats = append(stats, s)
	}

	return stats, nil
}

func (repository *PostgresRepository) MonthlyPlan(ctx context.Context, year int) ([]MonthlyStat, error) {
	// unnest expands each tour into one row per start date before grouping.
	query := `
		SELECT extract(month FROM start_date)::int AS month,
		       count(*)                            AS num_tour_starts,
		       array_agg(name)                     AS tours
		FROM tours, unnest(start_dates) AS start_date
		WHERE extract(year FROM start_date) = $1 AND NOT secret
		GROUP BY month
		ORDER BY num_tour_starts DESC, month ASC
		LIMIT 12`

	rows, err := repository.db.Query(ctx, query, year)
	if err != nil {
		return nil, dberr.Wrap(err, "monthly_plan")
	}
	defer rows.Close()

	var plan []MonthlyStat
	for rows.Next() {
		m := MonthlyStat{}
		if err := rows.Scan(&m.Month, &m.NumTourStarts, &m.Tours); err != nil {
			return nil, dberr.Wrap(err, "scan_monthly_plan")
		}
		plan = append(plan, m)
	}

	return plan, nil
}
