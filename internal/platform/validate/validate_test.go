// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/platform/apperr"
	"github.com/wayfarer-travel/wayfarer/internal/platform/validate"
)

/*
TestValidator_Required covers required-field detection including
whitespace-only values.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"present", "Forest Hiker", false},
		{"empty", "", true},
		{"whitespace_only", "   \t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Required("name", tt.value).Err()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestValidator_Lengths verifies rune-counted length bounds.
*/
func TestValidator_Lengths(t *testing.T) {
	v := &validate.Validator{}
	assert.NoError(t, v.MaxLen("name", "abcd", 4).Err())

	v = &validate.Validator{}
	assert.Error(t, v.MaxLen("name", "abcde", 4).Err())

	// Multibyte runes count as one character.
	v = &validate.Validator{}
	assert.NoError(t, v.MaxLen("name", "héllo", 5).Err())

	v = &validate.Validator{}
	assert.Error(t, v.MinLen("password", "short", 8).Err())

	v = &validate.Validator{}
	assert.NoError(t, v.MinLen("password", "pass1234", 8).Err())
}

/*
TestValidator_Ranges covers inclusive numeric bounds.
*/
func TestValidator_Ranges(t *testing.T) {
	v := &validate.Validator{}
	assert.NoError(t, v.Range("rating", 1, 1, 5).Err())

	v = &validate.Validator{}
	assert.NoError(t, v.Range("rating", 5, 1, 5).Err())

	v = &validate.Validator{}
	assert.Error(t, v.Range("rating", 6, 1, 5).Err())

	v = &validate.Validator{}
	assert.NoError(t, v.RangeFloat("ratings_average", 4.7, 1, 5).Err())

	v = &validate.Validator{}
	assert.Error(t, v.RangeFloat("ratings_average", 5.1, 1, 5).Err())

	v = &validate.Validator{}
	assert.Error(t, v.Positive("price", 0).Err())

	v = &validate.Validator{}
	assert.NoError(t, v.Positive("price", 397).Err())
}

/*
TestValidator_Email covers address parsing.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid", "ada@wayfarer.travel", false},
		{"missing_at", "ada.wayfarer.travel", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Email("email", tt.value).Err()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestValidator_OneOf covers closed-set membership.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	assert.NoError(t, v.OneOf("difficulty", "easy", "easy", "medium", "difficult").Err())

	v = &validate.Validator{}
	assert.Error(t, v.OneOf("difficulty", "extreme", "easy", "medium", "difficult").Err())
}

/*
TestValidator_Chain verifies failures accumulate across a chain and surface
as a single validation error with per-field details.
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("name", "").
		Email("email", "nope").
		Range("rating", 9, 1, 5).
		Custom("price_discount", true, "Discount must be below the regular price").
		Err()

	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Len(t, appErr.Details, 4)
	assert.True(t, v.HasErrors())
}

/*
TestValidator_NoErrors verifies a clean chain yields nil.
*/
func TestValidator_NoErrors(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("name", "The Sea Explorer").
		MaxLen("name", "The Sea Explorer", 100).
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestRequiredError verifies the single-field shortcut.
*/
func TestRequiredError(t *testing.T) {
	err := validate.RequiredError("year", "Must be a four-digit year")

	require.NotNil(t, err)
	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	require.Len(t, err.Details, 1)
	assert.Equal(t, "year", err.Details[0].Field)
}
