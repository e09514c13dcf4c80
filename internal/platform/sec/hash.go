// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost trades tens of milliseconds of verification latency for
// resistance to offline brute force on commodity hardware.
const DefaultBcryptCost = 12

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// A cost below bcrypt's minimum falls back to [DefaultBcryptCost], so a
// zero-valued configuration can never silently weaken hashing.
func HashPassword(plainTextPassword string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
// The comparison is constant-time within bcrypt itself.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
