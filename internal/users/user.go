// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package users

import (
	"time"

	"github.com/wayfarer-travel/wayfarer/internal/platform/sec"
)

// User represents a registered account on the platform.
//
// Credential and recovery material never leaves the server: the JSON tags
// exclude it from every API response regardless of which handler serializes
// the entity.
type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Photo *string  `json:"photo"`
	Role  sec.Role `json:"role"`

	PasswordHash      string     `json:"-"`
	PasswordChangedAt *time.Time `json:"-"`

	// Recovery ticket state; both nil when no reset is in flight.
	ResetTokenHash *string    `json:"-"`
	ResetExpiresAt *time.Time `json:"-"`

	// Active is flipped to false on account deletion. Inactive rows are
	// invisible to every lookup except the signup uniqueness probe.
	Active bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal projects the account into its request-scoped identity form.
func (u *User) Principal() *sec.Principal {
	return &sec.Principal{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              u.Role,
		PasswordChangedAt: u.PasswordChangedAt,
	}
}

// Global field names for validation
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPhoto           = "photo"
	FieldRole            = "role"
	FieldPassword        = "password"
	FieldPasswordCurrent = "password_current"
	FieldToken           = "token"
)
