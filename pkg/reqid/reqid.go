// Package reqid provides request ID generation and context propagation for
// outgoing API calls.
//
// Every call made through pkg/http carries an X-Request-ID header. When the
// caller's context already holds an ID (for example one CLI command that makes
// several calls) the same ID is reused, so server logs and client logs line up:
//
//	ctx = reqid.WithValue(ctx, reqid.New())
//	log := logger.WithCtx(ctx)
//	log.Info("signing in", "email", email)
//	// → time=... level=INFO msg="signing in" request_id=0b9c... email=...
package reqid

import (
	"context"

	"github.com/google/uuid"
)

// ctxKey is the unexported key used to store the request ID in context.
type ctxKey struct{}

// Header is the HTTP header name used to propagate the request ID.
const Header = "X-Request-ID"

// New generates a random (v4) request ID.
func New() string {
	return uuid.NewString()
}

// WithValue stores id in ctx and returns the new context.
func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx extracts the request ID from ctx.
// Returns an empty string if none is present.
func FromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Ensure returns ctx unchanged when it already carries an ID, otherwise a
// child context with a fresh one.
func Ensure(ctx context.Context) (context.Context, string) {
	if id := FromCtx(ctx); id != "" {
		return ctx, id
	}
	id := New()
	return WithValue(ctx, id), id
}
