// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// ResetTokenLength is the byte length of the random reset token
	// (32 bytes = 256 bits of entropy).
	ResetTokenLength = 32

	// ResetTicketTTL is the fixed validity window of a reset ticket.
	ResetTicketTTL = 10 * time.Minute
)

// ResetTicket is an ephemeral password-reset credential.
//
// The Plain token is disclosed exactly once, at creation, for out-of-band
// delivery. Only the one-way Hash is ever persisted, so looking a ticket up
// requires re-hashing the presented token.
type ResetTicket struct {
	Plain     string
	Hash      string
	ExpiresAt time.Time
}

// NewResetTicket generates a cryptographically random reset ticket expiring
// [ResetTicketTTL] from now.
func NewResetTicket() (ResetTicket, error) {
	buf := make([]byte, ResetTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return ResetTicket{}, fmt.Errorf("sec: failed to generate reset token: %w", err)
	}

	plain := hex.EncodeToString(buf)
	return ResetTicket{
		Plain:     plain,
		Hash:      HashResetToken(plain),
		ExpiresAt: time.Now().Add(ResetTicketTTL),
	}, nil
}

// HashResetToken computes the storable SHA-256 digest of a plaintext reset
// token.
func HashResetToken(plain string) string {
	digest := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(digest[:])
}
