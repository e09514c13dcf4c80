// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package sec

import "time"

// Principal is the authenticated identity attached to a request context
// after the access-control chain admits it.
//
// It is a deliberately small projection of the user record: enough for
// authorization decisions and for defaulting ownership fields downstream,
// nothing more.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`

	// PasswordChangedAt is nil when the password was never changed after signup.
	PasswordChangedAt *time.Time `json:"-"`
}

// PasswordChangedAfter reports whether the principal's password was changed
// at or after the given token issuance instant, which invalidates the token.
//
// Both instants are truncated to second granularity. Writers backdate
// PasswordChangedAt by one second (see [BackdatedChangeTime]) so a token
// issued in the same instant as the change is still rejected without
// clock-skew false negatives.
func (p *Principal) PasswordChangedAfter(tokenIssuedAt time.Time) bool {
	if p.PasswordChangedAt == nil {
		return false
	}
	return p.PasswordChangedAt.Unix() >= tokenIssuedAt.Unix()
}

// BackdatedChangeTime returns the instant to persist as PasswordChangedAt
// for a password mutation happening now: one second in the past, so tokens
// issued immediately after the change remain valid.
func BackdatedChangeTime(now time.Time) time.Time {
	return now.Add(-time.Second)
}
