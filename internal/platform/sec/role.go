// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package sec

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Unrestricted system access
	RoleAdmin Role = "admin"

	// Can manage tours and the guides assigned to them
	RoleLeadGuide Role = "lead-guide"

	// Conducts tours; no management permissions
	RoleGuide Role = "guide"

	// Default role for standard registered users
	RoleTourist Role = "tourist"
)

// Roles is the closed set of valid account roles, used for input validation.
var Roles = []Role{RoleTourist, RoleGuide, RoleLeadGuide, RoleAdmin}

// In reports whether the role is a member of the given set.
//
// Authorization is declarative membership, not a hierarchy: a route names
// the exact roles it admits.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// Valid reports whether the role belongs to the closed role set.
func (r Role) Valid() bool {
	return r.In(Roles...)
}
