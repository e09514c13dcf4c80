// Copyright (c) 2026 Wayfarer Travel. All rights reserved.

package ctxutil_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/platform/ctxutil"
	"github.com/wayfarer-travel/wayfarer/internal/platform/sec"
)

/*
TestRequestID_RoundTrip verifies storing and retrieving a request ID.
*/
func TestRequestID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", ctxutil.GetRequestID(ctx))
}

/*
TestLogger_RoundTrip verifies logger storage and the default fallback.
*/
func TestLogger_RoundTrip(t *testing.T) {
	ctx := context.Background()

	// An unset context falls back to the process default instead of nil.
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	logger := slog.Default().With("component", "test")
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestPrincipal_RoundTrip verifies principal storage and the anonymous case.
*/
func TestPrincipal_RoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetPrincipal(ctx))

	principal := &sec.Principal{ID: "u1", Role: sec.RoleGuide}
	ctx = ctxutil.WithPrincipal(ctx, principal)

	got := ctxutil.GetPrincipal(ctx)
	require.NotNil(t, got)
	assert.Same(t, principal, got)
}
