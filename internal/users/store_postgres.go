// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package users

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarer-travel/wayfarer/internal/platform/dberr"
)

// userColumns is the canonical SELECT list for scanning a full account row.
const userColumns = `
	id, name, email, photo, role, password_hash, password_changed_at,
	reset_token_hash, reset_expires_at, active, created_at, updated_at`

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, name, email, photo, role, password_hash, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := repository.db.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.Photo, user.Role, user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, "create_user")
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND active`
	return repository.scanOne(ctx, query, id)
}

func (repository *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND active`
	return repository.scanOne(ctx, query, email)
}

func (repository *PostgresRepository) FindByEmailAnyStatus(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return repository.scanOne(ctx, query, email)
}

func (repository *PostgresRepository) FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_token_hash = $1 AND reset_expires_at > $2 AND active`
	return repository.scanOne(ctx, query, tokenHash, now)
}

func (repository *PostgresRepository) UpdateProfile(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, photo = $4, updated_at = NOW()
		WHERE id = $1 AND active
		RETURNING updated_at`

	err := repository.db.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.Photo,
	).Scan(&user.UpdatedAt)

	return dberr.Wrap(err, "update_user_profile")
}

func (repository *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	// Clearing the reset ticket here makes every ticket strictly single-use.
	query := `
		UPDATE users
		SET password_hash = $2, password_changed_at = $3,
		    reset_token_hash = NULL, reset_expires_at = NULL, updated_at = NOW()
		WHERE id = $1 AND active`

	cmd, err := repository.db.Exec(ctx, query, id, passwordHash, changedAt)
	if err != nil {
		return dberr.Wrap(err, "update_user_password")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SetResetTicket(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET reset_token_hash = $2, reset_expires_at = $3, updated_at = NOW()
		WHERE id = $1 AND active`

	cmd, err := repository.db.Exec(ctx, query, id, tokenHash, expiresAt)
	if err != nil {
		return dberr.Wrap(err, "set_reset_ticket")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) ClearResetTicket(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET reset_token_hash = NULL, reset_expires_at = NULL, updated_at = NOW()
		WHERE id = $1`

	_, err := repository.db.Exec(ctx, query, id)
	return dberr.Wrap(err, "clear_reset_ticket")
}

func (repository *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE users SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active`

	cmd, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "deactivate_user")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := repository.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE active`).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE active
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	var accounts []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.Photo, &user.Role,
			&user.PasswordHash, &user.PasswordChangedAt,
			&user.ResetTokenHash, &user.ResetExpiresAt,
			&user.Active, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		accounts = append(accounts, user)
	}

	return accounts, total, nil
}

// scanOne runs a single-row account query and maps pgx.ErrNoRows to NotFound.
func (repository *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*User, error) {
	user := &User{}

	err := repository.db.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.Photo, &user.Role,
		&user.PasswordHash, &user.PasswordChangedAt,
		&user.ResetTokenHash, &user.ResetExpiresAt,
		&user.Active, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_user")
	}

	return user, nil
}
