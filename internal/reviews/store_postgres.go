// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package reviews

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarer-travel/wayfarer/internal/platform/dberr"
)

const reviewColumns = `id, tour_id, user_id, review, rating, created_at, updated_at`

// refreshTourRatings recomputes a tour's denormalized rating aggregates from
// its remaining reviews. With no reviews left, the defaults are restored.
const refreshTourRatings = `
	UPDATE tours
	SET ratings_quantity = (SELECT count(*) FROM reviews WHERE tour_id = $1),
	    ratings_average  = coalesce((SELECT avg(rating) FROM reviews WHERE tour_id = $1), 4.0),
	    updated_at = NOW()
	WHERE id = $1`

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Create(ctx context.Context, review *Review) error {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_create_review")
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO reviews (id, tour_id, user_id, review, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at`

	err = tx.QueryRow(ctx, insert,
		review.ID, review.TourID, review.UserID, review.Review, review.Rating,
	).Scan(&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_review")
	}

	if _, err := tx.Exec(ctx, refreshTourRatings, review.TourID); err != nil {
		return dberr.Wrap(err, "refresh_tour_ratings")
	}

	return dberr.Wrap(tx.Commit(ctx), "commit_create_review")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Review, error) {
	review := &Review{}

	err := repository.db.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id,
	).Scan(
		&review.ID, &review.TourID, &review.UserID,
		&review.Review, &review.Rating, &review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_review")
	}

	return review, nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_review")
	}
	defer tx.Rollback(ctx)

	var tourID int
	err = tx.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING tour_id`, id).Scan(&tourID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return dberr.ErrNotFound
		}
		return dberr.Wrap(err, "delete_review")
	}

	if _, err := tx.Exec(ctx, refreshTourRatings, tourID); err != nil {
		return dberr.Wrap(err, "refresh_tour_ratings")
	}

	return dberr.Wrap(tx.Commit(ctx), "commit_delete_review")
}

func (repository *PostgresRepository) ListByTour(ctx context.Context, tourID int) ([]*Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE tour_id = $1
		ORDER BY created_at DESC`

	rows, err := repository.db.Query(ctx, query, tourID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tour_reviews")
	}
	defer rows.Close()

	return scanReviews(rows)
}

func (repository *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*Review, int, error) {
	var total int
	if err := repository.db.QueryRow(ctx, `SELECT count(*) FROM reviews`).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_reviews")
	}

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	items, err := scanReviews(rows)
	return items, total, err
}

func scanReviews(rows pgx.Rows) ([]*Review, error) {
	var items []*Review
	for rows.Next() {
		review := &Review{}
		if err := rows.Scan(
			&review.ID, &review.TourID, &review.UserID,
			&review.Review, &review.Rating, &review.CreatedAt, &review.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_review")
		}
		items = append(items, review)
	}
	return items, nil
}
