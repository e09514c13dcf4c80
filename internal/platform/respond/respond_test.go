// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/platform/apperr"
	"github.com/wayfarer-travel/wayfarer/internal/platform/respond"
	"github.com/wayfarer-travel/wayfarer/pkg/pagination"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

/*
TestOK verifies the single-resource success envelope.
*/
func TestOK(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.OK(recorder, map[string]string{"name": "The Forest Hiker"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "application/json")

	payload := decode(t, recorder)
	assert.Equal(t, "success", payload["status"])
	assert.NotNil(t, payload["data"])
}

/*
TestCreated verifies the 201 success envelope.
*/
func TestCreated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Created(recorder, map[string]string{"id": "u1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "success", decode(t, recorder)["status"])
}

/*
TestList verifies the list envelope carries the count and pagination metadata.
*/
func TestList(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.List(recorder, []string{"a", "b"}, 2, pagination.NewMeta(1, 20, 42))

	assert.Equal(t, http.StatusOK, recorder.Code)

	payload := decode(t, recorder)
	assert.Equal(t, "success", payload["status"])
	assert.EqualValues(t, 2, payload["results"])

	meta, ok := payload["meta"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 42, meta["total"])
	assert.EqualValues(t, 3, meta["total_pages"])
}

/*
TestNoContent verifies the empty 204 response.
*/
func TestNoContent(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.NoContent(recorder)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.Bytes())
}

/*
TestError verifies the fail/error split and that unknown errors never leak
their message to the client.
*/
func TestError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantStatus  string
		wantMessage string
	}{
		{
			name:        "not_found_is_fail",
			err:         apperr.NotFound("Tour"),
			wantCode:    http.StatusNotFound,
			wantStatus:  "fail",
			wantMessage: "Tour not found",
		},
		{
			name:        "validation_is_fail",
			err:         apperr.ValidationError("Validation failed"),
			wantCode:    http.StatusBadRequest,
			wantStatus:  "fail",
			wantMessage: "Validation failed",
		},
		{
			name:        "internal_is_error",
			err:         apperr.Internal(errors.New("pq: connection refused")),
			wantCode:    http.StatusInternalServerError,
			wantStatus:  "error",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "unwrapped_error_is_masked",
			err:         errors.New("secret internal detail"),
			wantCode:    http.StatusInternalServerError,
			wantStatus:  "error",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/", nil)

			respond.Error(recorder, request, tt.err)

			assert.Equal(t, tt.wantCode, recorder.Code)

			payload := decode(t, recorder)
			assert.Equal(t, tt.wantStatus, payload["status"])
			assert.Equal(t, tt.wantMessage, payload["message"])
			assert.NotContains(t, recorder.Body.String(), "secret internal detail")
		})
	}
}

/*
TestError_ValidationDetails verifies per-field details survive serialization.
*/
func TestError_ValidationDetails(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.Error(recorder, request, apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "email", Message: "Must be a valid email address"},
	))

	payload := decode(t, recorder)
	details, ok := payload["details"].([]any)
	require.True(t, ok)
	require.Len(t, details, 1)

	first, ok := details[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "email", first["field"])
}
