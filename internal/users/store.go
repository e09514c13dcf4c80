// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package users

import (
	"context"
	"time"
)

// Repository is the persistence contract for user accounts.
//
// Every read except [Repository.FindByEmailAnyStatus] excludes deactivated
// accounts, so callers get soft-delete semantics for free.
type Repository interface {
	// Create persists a new account and fills in its generated timestamps.
	Create(ctx context.Context, user *User) error

	// FindByID returns an active account by primary key.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns an active account by its unique email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByEmailAnyStatus returns an account by email regardless of its
	// active flag. Used only by the signup uniqueness probe, where a
	// deactivated account must still block re-registration.
	FindByEmailAnyStatus(ctx context.Context, email string) (*User, error)

	// FindByResetTokenHash returns the active account holding an unexpired
	// reset ticket with the given hash.
	FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*User, error)

	// UpdateProfile persists name, email and photo changes.
	UpdateProfile(ctx context.Context, user *User) error

	// UpdatePassword swaps the credential hash and records the change
	// instant, clearing any in-flight reset ticket in the same statement.
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error

	// SetResetTicket stores a reset ticket hash and its expiry on the account.
	SetResetTicket(ctx context.Context, id, tokenHash string, expiresAt time.Time) error

	// ClearResetTicket removes any reset ticket from the account.
	ClearResetTicket(ctx context.Context, id string) error

	// Deactivate soft-deletes the account.
	Deactivate(ctx context.Context, id string) error

	// List returns a page of active accounts with the filtered total.
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
}
