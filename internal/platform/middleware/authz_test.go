// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/platform/ctxutil"
	"github.com/wayfarer-travel/wayfarer/internal/platform/middleware"
	"github.com/wayfarer-travel/wayfarer/internal/platform/sec"
)

// fakeVerifier returns canned claims or an error.
type fakeVerifier struct {
	claims *sec.SessionClaims
	err    error
}

func (f *fakeVerifier) Verify(string) (*sec.SessionClaims, error) {
	return f.claims, f.err
}

// fakePrincipals returns a canned principal or an error.
type fakePrincipals struct {
	principal *sec.Principal
	err       error
}

func (f *fakePrincipals) Principal(context.Context, string) (*sec.Principal, error) {
	return f.principal, f.err
}

func claimsFor(userID string, issuedAt time.Time) *sec.SessionClaims {
	return &sec.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
		UserID: userID,
	}
}

// run sends a request through Authenticate (plus optional extra middleware)
// and reports whether the downstream handler executed.
func run(t *testing.T, guard *middleware.Guard, authHeader string, extra ...func(http.Handler) http.Handler) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	reachedNext := false
	var next http.Handler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		reachedNext = true
		writer.WriteHeader(http.StatusOK)
	})

	for i := len(extra) - 1; i >= 0; i-- {
		next = extra[i](next)
	}
	handler := guard.Authenticate(next)

	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		request.Header.Set("Authorization", authHeader)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder, reachedNext
}

/*
TestGuard_Authenticate_Success verifies the happy path injects the principal.
*/
func TestGuard_Authenticate_Success(t *testing.T) {
	principal := &sec.Principal{ID: "u1", Role: sec.RoleTourist}
	guard := middleware.NewGuard(
		&fakeVerifier{claims: claimsFor("u1", time.Now())},
		&fakePrincipals{principal: principal},
	)

	var seen *sec.Principal
	capture := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			seen = ctxutil.GetPrincipal(request.Context())
			next.ServeHTTP(writer, request)
		})
	}

	recorder, reachedNext := run(t, guard, "Bearer some-token", capture)

	assert.True(t, reachedNext)
	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.ID)
}

/*
TestGuard_Authenticate_Rejections verifies every failure mode responds 401
and never reaches the downstream handler.
*/
func TestGuard_Authenticate_Rejections(t *testing.T) {
	validClaims := claimsFor("u1", time.Now())
	activeUser := &sec.Principal{ID: "u1", Role: sec.RoleTourist}

	staleChange := time.Now().Add(time.Minute)

	tests := []struct {
		name       string
		authHeader string
		verifier   middleware.TokenVerifier
		principals middleware.PrincipalSource
	}{
		{
			name:       "missing_token",
			authHeader: "",
			verifier:   &fakeVerifier{claims: validClaims},
			principals: &fakePrincipals{principal: activeUser},
		},
		{
			name:       "expired_token",
			authHeader: "Bearer t",
			verifier:   &fakeVerifier{err: sec.ErrTokenExpired},
			principals: &fakePrincipals{principal: activeUser},
		},
		{
			name:       "bad_signature",
			authHeader: "Bearer t",
			verifier:   &fakeVerifier{err: sec.ErrTokenSignature},
			principals: &fakePrincipals{principal: activeUser},
		},
		{
			name:       "malformed_token",
			authHeader: "Bearer t",
			verifier:   &fakeVerifier{err: sec.ErrTokenMalformed},
			principals: &fakePrincipals{principal: activeUser},
		},
		{
			name:       "user_gone_or_deactivated",
			authHeader: "Bearer t",
			verifier:   &fakeVerifier{claims: validClaims},
			principals: &fakePrincipals{err: errors.New("no rows")},
		},
		{
			name:       "password_changed_after_issue",
			authHeader: "Bearer t",
			verifier:   &fakeVerifier{claims: claimsFor("u1", time.Now().Add(-time.Hour))},
			principals: &fakePrincipals{principal: &sec.Principal{
				ID: "u1", Role: sec.RoleTourist, PasswordChangedAt: &staleChange,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := middleware.NewGuard(tt.verifier, tt.principals)

			recorder, reachedNext := run(t, guard, tt.authHeader)

			// A rejection must short-circuit: the next handler never runs.
			assert.False(t, reachedNext)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Contains(t, recorder.Body.String(), `"status":"fail"`)
		})
	}
}

/*
TestGuard_RequireRoles verifies role membership gating after authentication.
*/
func TestGuard_RequireRoles(t *testing.T) {
	tests := []struct {
		name        string
		role        sec.Role
		allowed     []sec.Role
		wantStatus  int
		wantReached bool
	}{
		{"admin_allowed", sec.RoleAdmin, []sec.Role{sec.RoleAdmin, sec.RoleLeadGuide}, http.StatusOK, true},
		{"lead_guide_allowed", sec.RoleLeadGuide, []sec.Role{sec.RoleAdmin, sec.RoleLeadGuide}, http.StatusOK, true},
		{"tourist_forbidden", sec.RoleTourist, []sec.Role{sec.RoleAdmin, sec.RoleLeadGuide}, http.StatusForbidden, false},
		{"guide_forbidden", sec.RoleGuide, []sec.Role{sec.RoleAdmin}, http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := middleware.NewGuard(
				&fakeVerifier{claims: claimsFor("u1", time.Now())},
				&fakePrincipals{principal: &sec.Principal{ID: "u1", Role: tt.role}},
			)

			recorder, reachedNext := run(t, guard, "Bearer t", guard.RequireRoles(tt.allowed...))

			assert.Equal(t, tt.wantReached, reachedNext)
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

/*
TestGuard_CookieFallback verifies the session cookie is accepted when no
Authorization header is present.
*/
func TestGuard_CookieFallback(t *testing.T) {
	guard := middleware.NewGuard(
		&fakeVerifier{claims: claimsFor("u1", time.Now())},
		&fakePrincipals{principal: &sec.Principal{ID: "u1", Role: sec.RoleTourist}},
	)

	reachedNext := false
	handler := guard.Authenticate(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		reachedNext = true
	}))

	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request.AddCookie(&http.Cookie{Name: "jwt", Value: "cookie-token"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.True(t, reachedNext)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
