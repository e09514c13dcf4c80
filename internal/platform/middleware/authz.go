// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/wayfarer-travel/wayfarer/internal/platform/apperr"
	"github.com/wayfarer-travel/wayfarer/internal/platform/constants"
	"github.com/wayfarer-travel/wayfarer/internal/platform/ctxutil"
	"github.com/wayfarer-travel/wayfarer/internal/platform/respond"
	"github.com/wayfarer-travel/wayfarer/internal/platform/sec"
)

// # Access Control Guard

// TokenVerifier verifies a raw session token and returns its claims.
type TokenVerifier interface {
	Verify(rawToken string) (*sec.SessionClaims, error)
}

// PrincipalSource loads the live account behind a verified token.
// Implementations must exclude deactivated accounts.
type PrincipalSource interface {
	Principal(ctx context.Context, userID string) (*sec.Principal, error)
}

// Guard enforces authentication and role-based authorization on route groups.
//
// Every protected request passes through the same pipeline: extract the
// bearer token, verify its signature and expiry, load the live account,
// and reject tokens issued before the last password change. Any failed
// step short-circuits with 401 before the next handler runs.
type Guard struct {
	verifier   TokenVerifier
	principals PrincipalSource
}

// NewGuard wires a Guard from its token and account dependencies.
func NewGuard(verifier TokenVerifier, principals PrincipalSource) *Guard {
	return &Guard{verifier: verifier, principals: principals}
}

// Authenticate requires a valid session token and injects the resolved
// principal into the request context.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		// 1. Extract the raw token from the Authorization header or cookie
		rawToken := extractToken(request)
		if rawToken == "" {
			respond.Error(writer, request, apperr.Unauthorized("You are not logged in. Please log in to get access"))
			return
		}

		// 2. Verify signature, structure, and expiry
		claims, err := g.verifier.Verify(rawToken)
		if err != nil {
			respond.Error(writer, request, unauthorizedFor(err))
			return
		}

		// 3. Load the live account; deleted or deactivated users lose access
		// even while their token is still unexpired
		principal, err := g.principals.Principal(request.Context(), claims.UserID)
		if err != nil {
			respond.Error(writer, request, apperr.Unauthorized("The user belonging to this token no longer exists"))
			return
		}

		// 4. Reject tokens issued before the most recent password change
		if claims.IssuedAt != nil && principal.PasswordChangedAfter(claims.IssuedAt.Time) {
			respond.Error(writer, request, apperr.Unauthorized("Password was recently changed. Please log in again"))
			return
		}

		// 5. Grant access: inject the principal for downstream handlers
		ctx := ctxutil.WithPrincipal(request.Context(), principal)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RequireRoles restricts a route to principals whose role is in the allowed set.
// It must be chained after [Guard.Authenticate].
func (g *Guard) RequireRoles(allowed ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			principal := ctxutil.GetPrincipal(request.Context())
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("You are not logged in. Please log in to get access"))
				return
			}

			if !principal.Role.In(allowed...) {
				respond.Error(writer, request, apperr.Forbidden("You are not authorized to perform this action"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// extractToken pulls the session token from the Bearer header, falling back
// to the session cookie set at login.
func extractToken(request *http.Request) string {

	header := request.Header.Get(constants.HeaderAuthorization)
	if strings.HasPrefix(header, constants.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
	}

	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// unauthorizedFor maps token verification failures to client-facing messages.
func unauthorizedFor(err error) error {
	switch {
	case errors.Is(err, sec.ErrTokenExpired):
		return apperr.Unauthorized("Your session has expired. Please log in again")
	case errors.Is(err, sec.ErrTokenSignature):
		return apperr.Unauthorized("Invalid session token signature")
	default:
		return apperr.Unauthorized("Invalid session token")
	}
}
